package database

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MaxBatchSize is the BatchWriteItem limit.
const MaxBatchSize = 25

// maxUnprocessedRounds bounds how often unprocessed items are handed back to
// the service before the batch is reported as failed.
const maxUnprocessedRounds = 5

// Batch writes whole items into a single table.
type Batch[T any] struct {
	DB    DynamoDB
	Table string
}

func NewBatch[T any](db DynamoDB, table string) *Batch[T] {
	return &Batch[T]{DB: db, Table: table}
}

// Put persists up to MaxBatchSize items with one BatchWriteItem call.
// Items the service reports as unprocessed are resubmitted.
func (b *Batch[T]) Put(ctx context.Context, items []T) error {
	if len(items) == 0 {
		return nil
	}
	if len(items) > MaxBatchSize {
		return fmt.Errorf("batch put: %d items exceeds limit of %d", len(items), MaxBatchSize)
	}

	reqs := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		av, err := attributevalue.MarshalMap(item)
		if err != nil {
			return fmt.Errorf("marshal item: %w", err)
		}
		reqs = append(reqs, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}

	pending := map[string][]types.WriteRequest{b.Table: reqs}
	for round := 0; len(pending) > 0; round++ {
		if round == maxUnprocessedRounds {
			return fmt.Errorf("batch put %s: %d items left unprocessed", b.Table, len(pending[b.Table]))
		}
		out, err := b.DB.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
		if err != nil {
			return fmt.Errorf("batch write %s: %w", b.Table, err)
		}
		pending = out.UnprocessedItems
	}
	return nil
}

// PutItem writes a single item, used where no batching is needed.
func PutItem(ctx context.Context, db DynamoDB, table string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}
	if _, err := db.PutItem(ctx, &dynamodb.PutItemInput{TableName: aws.String(table), Item: av}); err != nil {
		return fmt.Errorf("put item %s: %w", table, err)
	}
	return nil
}
