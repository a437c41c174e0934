package database_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/fogfish/it"

	"cardvault/internal/ddbtest"
	"cardvault/pkg/database"
)

type row struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
}

func rows(n int) []row {
	out := make([]row, n)
	for i := range out {
		out[i] = row{PK: "p", SK: fmt.Sprintf("s%d", i)}
	}
	return out
}

func TestBatchPutWritesAllItems(t *testing.T) {
	mock := &ddbtest.Mock{}
	err := database.NewBatch[row](mock, "cards").Put(context.Background(), rows(10))

	it.Ok(t).
		IfNil(err).
		If(len(mock.Batches)).Should().Equal(1).
		If(len(mock.Batches[0].RequestItems["cards"])).Should().Equal(10)
}

func TestBatchPutRejectsOversizedBatch(t *testing.T) {
	mock := &ddbtest.Mock{}
	err := database.NewBatch[row](mock, "cards").Put(context.Background(), rows(26))

	it.Ok(t).
		IfNotNil(err).
		If(len(mock.Batches)).Should().Equal(0)
}

func TestBatchPutEmptyIsNoop(t *testing.T) {
	mock := &ddbtest.Mock{}
	err := database.NewBatch[row](mock, "cards").Put(context.Background(), nil)

	it.Ok(t).
		IfNil(err).
		If(len(mock.Batches)).Should().Equal(0)
}

func TestBatchPutResubmitsUnprocessed(t *testing.T) {
	calls := 0
	mock := &ddbtest.Mock{
		OnBatchWriteItem: func(in *dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error) {
			calls++
			if calls == 1 {
				return &dynamodb.BatchWriteItemOutput{
					UnprocessedItems: map[string][]types.WriteRequest{"cards": in.RequestItems["cards"][:2]},
				}, nil
			}
			return &dynamodb.BatchWriteItemOutput{}, nil
		},
	}
	err := database.NewBatch[row](mock, "cards").Put(context.Background(), rows(5))

	it.Ok(t).
		IfNil(err).
		If(calls).Should().Equal(2).
		If(len(mock.Batches[1].RequestItems["cards"])).Should().Equal(2)
}

func TestBatchPutGivesUpOnStuckItems(t *testing.T) {
	mock := &ddbtest.Mock{
		OnBatchWriteItem: func(in *dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error) {
			return &dynamodb.BatchWriteItemOutput{UnprocessedItems: in.RequestItems}, nil
		},
	}
	err := database.NewBatch[row](mock, "cards").Put(context.Background(), rows(3))

	it.Ok(t).IfNotNil(err)
}

func TestErrorCode(t *testing.T) {
	err := fmt.Errorf("put: %w", &ddbtest.APIError{Code: "ConditionalCheckFailedException"})

	it.Ok(t).
		If(database.ErrorCode(err)).Should().Equal("ConditionalCheckFailedException").
		IfTrue(database.IsConditionFailed(err)).
		If(database.ErrorCode(fmt.Errorf("plain"))).Should().Equal("")
}

func TestMigrateCreatesOnlyMissingTables(t *testing.T) {
	mock := &ddbtest.Mock{
		OnDescribeTable: func(in *dynamodb.DescribeTableInput) (*dynamodb.DescribeTableOutput, error) {
			if *in.TableName == "cards" {
				return &dynamodb.DescribeTableOutput{}, nil
			}
			return nil, &ddbtest.APIError{Code: "ResourceNotFoundException"}
		},
	}
	specs := database.Schema(database.TablesNames{Cards: "cards", Collection: "collection", Decks: "decks"})
	err := database.Migrate(context.Background(), mock, specs)

	it.Ok(t).
		IfNil(err).
		If(len(mock.Creates)).Should().Equal(2).
		If(*mock.Creates[0].TableName).Should().Equal("collection").
		If(len(mock.Creates[0].GlobalSecondaryIndexes)).Should().Equal(2)
}
