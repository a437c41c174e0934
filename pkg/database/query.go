package database

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// QueryAll follows LastEvaluatedKey until the query is exhausted.
// The input's ExclusiveStartKey is overwritten while paging.
func QueryAll[T any](ctx context.Context, db DynamoDB, in *dynamodb.QueryInput) ([]T, error) {
	out := []T{}
	for {
		page, err := db.Query(ctx, in)
		if err != nil {
			return nil, err
		}

		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		out = append(out, items...)

		if len(page.LastEvaluatedKey) == 0 {
			return out, nil
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}
}

// ScanAll is QueryAll for scans.
func ScanAll[T any](ctx context.Context, db DynamoDB, in *dynamodb.ScanInput) ([]T, error) {
	out := []T{}
	for {
		page, err := db.Scan(ctx, in)
		if err != nil {
			return nil, err
		}

		var items []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
		out = append(out, items...)

		if len(page.LastEvaluatedKey) == 0 {
			return out, nil
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}
}

// GetItem decodes one item into a new T, or returns nil when it is absent.
func GetItem[T any](ctx context.Context, db DynamoDB, table string, key map[string]types.AttributeValue) (*T, error) {
	out, err := db.GetItem(ctx, &dynamodb.GetItemInput{TableName: &table, Key: key})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	item := new(T)
	if err := attributevalue.UnmarshalMap(out.Item, item); err != nil {
		return nil, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}

// Key builds a PK/SK primary key.
func Key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}
