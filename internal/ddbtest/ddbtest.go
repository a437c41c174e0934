// Package ddbtest mocks the DynamoDB client for repository tests.
package ddbtest

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"cardvault/pkg/database"
)

var ErrUnexpectedCall = errors.New("unexpected call")

// Mock answers each DynamoDB method through an optional hook and records the
// inputs it saw. Methods without a hook fail with ErrUnexpectedCall.
type Mock struct {
	database.DynamoDB

	OnGetItem        func(*dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	OnPutItem        func(*dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
	OnDeleteItem     func(*dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error)
	OnUpdateItem     func(*dynamodb.UpdateItemInput) (*dynamodb.UpdateItemOutput, error)
	OnQuery          func(*dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	OnScan           func(*dynamodb.ScanInput) (*dynamodb.ScanOutput, error)
	OnBatchWriteItem func(*dynamodb.BatchWriteItemInput) (*dynamodb.BatchWriteItemOutput, error)
	OnDescribeTable  func(*dynamodb.DescribeTableInput) (*dynamodb.DescribeTableOutput, error)
	OnCreateTable    func(*dynamodb.CreateTableInput) (*dynamodb.CreateTableOutput, error)

	Gets    []*dynamodb.GetItemInput
	Puts    []*dynamodb.PutItemInput
	Deletes []*dynamodb.DeleteItemInput
	Updates []*dynamodb.UpdateItemInput
	Queries []*dynamodb.QueryInput
	Scans   []*dynamodb.ScanInput
	Batches []*dynamodb.BatchWriteItemInput
	Creates []*dynamodb.CreateTableInput
}

func (m *Mock) GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.Gets = append(m.Gets, in)
	if m.OnGetItem == nil {
		return nil, ErrUnexpectedCall
	}
	return m.OnGetItem(in)
}

func (m *Mock) PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.Puts = append(m.Puts, in)
	if m.OnPutItem == nil {
		return &dynamodb.PutItemOutput{}, nil
	}
	return m.OnPutItem(in)
}

func (m *Mock) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.Deletes = append(m.Deletes, in)
	if m.OnDeleteItem == nil {
		return &dynamodb.DeleteItemOutput{}, nil
	}
	return m.OnDeleteItem(in)
}

func (m *Mock) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	m.Updates = append(m.Updates, in)
	if m.OnUpdateItem == nil {
		return nil, ErrUnexpectedCall
	}
	return m.OnUpdateItem(in)
}

func (m *Mock) Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.Queries = append(m.Queries, in)
	if m.OnQuery == nil {
		return nil, ErrUnexpectedCall
	}
	return m.OnQuery(in)
}

func (m *Mock) Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	m.Scans = append(m.Scans, in)
	if m.OnScan == nil {
		return nil, ErrUnexpectedCall
	}
	return m.OnScan(in)
}

func (m *Mock) BatchWriteItem(ctx context.Context, in *dynamodb.BatchWriteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	m.Batches = append(m.Batches, in)
	if m.OnBatchWriteItem == nil {
		return &dynamodb.BatchWriteItemOutput{}, nil
	}
	return m.OnBatchWriteItem(in)
}

func (m *Mock) DescribeTable(ctx context.Context, in *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if m.OnDescribeTable == nil {
		return nil, ErrUnexpectedCall
	}
	return m.OnDescribeTable(in)
}

func (m *Mock) CreateTable(ctx context.Context, in *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	m.Creates = append(m.Creates, in)
	if m.OnCreateTable == nil {
		return &dynamodb.CreateTableOutput{}, nil
	}
	return m.OnCreateTable(in)
}

// APIError mimics a smithy API error carrying a service error code.
type APIError struct {
	Code string
}

func (e *APIError) Error() string     { return e.Code }
func (e *APIError) ErrorCode() string { return e.Code }
