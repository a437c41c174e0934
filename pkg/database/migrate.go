package database

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	IndexCollectionByOracle = "GSI-Collection-OracleId"
	IndexCollectionByDeck   = "GSI-Collection-DeckId"
)

// TableSpec describes one PK/SK table and its secondary indexes.
type TableSpec struct {
	Name string
	// GSIs maps index name to its sort key attribute; every index shares PK.
	GSIs map[string]string
	// TTLAttribute is informational; expiry is configured on the table out of band.
	TTLAttribute string
}

func Schema(tables TablesNames) []TableSpec {
	return []TableSpec{
		{Name: tables.Cards, TTLAttribute: "RemoveAt"},
		{Name: tables.Collection, GSIs: map[string]string{
			IndexCollectionByOracle: "GSI2SK",
			IndexCollectionByDeck:   "GSI1SK",
		}},
		{Name: tables.Decks},
	}
}

type TablesNames struct {
	Cards      string
	Collection string
	Decks      string
}

// Migrate creates missing tables. Meant for DynamoDB Local and test stacks;
// production tables are provisioned by infrastructure code.
func Migrate(ctx context.Context, db DynamoDB, specs []TableSpec) error {
	for _, spec := range specs {
		_, err := db.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(spec.Name)})
		if err == nil {
			continue
		}
		if ErrorCode(err) != "ResourceNotFoundException" {
			return fmt.Errorf("describe table %s: %w", spec.Name, err)
		}
		if _, err := db.CreateTable(ctx, createTableInput(spec)); err != nil {
			return fmt.Errorf("create table %s: %w", spec.Name, err)
		}
	}
	return nil
}

func createTableInput(spec TableSpec) *dynamodb.CreateTableInput {
	attrs := []types.AttributeDefinition{
		{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS},
		{AttributeName: aws.String("SK"), AttributeType: types.ScalarAttributeTypeS},
	}
	in := &dynamodb.CreateTableInput{
		TableName:   aws.String(spec.Name),
		BillingMode: types.BillingModePayPerRequest,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
	}
	for name, sortKey := range spec.GSIs {
		attrs = append(attrs, types.AttributeDefinition{AttributeName: aws.String(sortKey), AttributeType: types.ScalarAttributeTypeS})
		in.GlobalSecondaryIndexes = append(in.GlobalSecondaryIndexes, types.GlobalSecondaryIndex{
			IndexName: aws.String(name),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
				{AttributeName: aws.String(sortKey), KeyType: types.KeyTypeRange},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}
	in.AttributeDefinitions = attrs
	return in
}
