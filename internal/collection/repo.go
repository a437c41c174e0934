package collection

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"cardvault/pkg/database"
	"cardvault/pkg/models"
	"cardvault/pkg/utils"
)

const DefaultLimit = 40

type Repo struct {
	DB    database.DynamoDB
	Table string
}

func NewRepo(db database.DynamoDB, table string) *Repo {
	return &Repo{DB: db, Table: table}
}

// Cursor is the primary key a page resumes after.
type Cursor struct {
	PK string
	SK string
}

type SearchQuery struct {
	UserID string
	Q      string // matched case-insensitively, empty lists everything
	Limit  int
	After  *Cursor
}

type Page struct {
	Items []models.CardInstance
	Next  *Cursor // nil when nothing remains
}

func key(userID, instanceID string) map[string]types.AttributeValue {
	return database.Key(models.CollectionPK(userID), models.CollectionSK(instanceID))
}

func (r *Repo) Put(ctx context.Context, inst models.CardInstance) error {
	if err := database.PutItem(ctx, r.DB, r.Table, inst); err != nil {
		return fmt.Errorf("put card instance: %w", err)
	}
	return nil
}

// Get returns nil when the user does not own the instance.
func (r *Repo) Get(ctx context.Context, userID, instanceID string) (*models.CardInstance, error) {
	inst, err := database.GetItem[models.CardInstance](ctx, r.DB, r.Table, key(userID, instanceID))
	if err != nil {
		return nil, fmt.Errorf("get card instance: %w", err)
	}
	return inst, nil
}

func (r *Repo) Delete(ctx context.Context, userID, instanceID string) error {
	_, err := r.DB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.Table),
		Key:       key(userID, instanceID),
	})
	if err != nil {
		return fmt.Errorf("delete card instance: %w", err)
	}
	return nil
}

// ByOracle lists the user's copies of one oracle through the oracle index.
func (r *Repo) ByOracle(ctx context.Context, userID, oracleID string) ([]models.CardInstance, error) {
	kc := expression.KeyAnd(
		expression.Key("PK").Equal(expression.Value(models.CollectionPK(userID))),
		expression.Key("GSI2SK").BeginsWith(models.CollectionOraclePrefix(oracleID)),
	)
	expr, err := expression.NewBuilder().WithKeyCondition(kc).Build()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items, err := database.QueryAll[models.CardInstance](ctx, r.DB, &dynamodb.QueryInput{
		TableName:                 aws.String(r.Table),
		IndexName:                 aws.String(database.IndexCollectionByOracle),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("query oracle index: %w", err)
	}
	return items, nil
}

// Search pages through the user's partition until Limit matches are found
// or the partition runs out. Next points at the last returned item whenever
// more items may follow it.
func (r *Repo) Search(ctx context.Context, q SearchQuery) (Page, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	b := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(models.CollectionPK(q.UserID))))
	needle := utils.Fold(q.Q)
	if needle != "" {
		b = b.WithFilter(expression.Or(
			expression.Name("LowerCaseOracleName").Contains(needle),
			expression.Name("CombinedLowercaseOracleText").Contains(needle),
		))
	}
	expr, err := b.Build()
	if err != nil {
		return Page{}, fmt.Errorf("build query: %w", err)
	}

	in := &dynamodb.QueryInput{
		TableName:                 aws.String(r.Table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if needle != "" {
		in.FilterExpression = expr.Filter()
	} else {
		in.Limit = aws.Int32(int32(limit))
	}
	if q.After != nil {
		in.ExclusiveStartKey = database.Key(q.After.PK, q.After.SK)
	}

	items := []models.CardInstance{}
	exhausted := false
	for len(items) < limit {
		page, err := r.DB.Query(ctx, in)
		if err != nil {
			return Page{}, fmt.Errorf("query collection: %w", err)
		}

		var batch []models.CardInstance
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return Page{}, fmt.Errorf("decode card instances: %w", err)
		}
		items = append(items, batch...)

		if len(page.LastEvaluatedKey) == 0 {
			exhausted = true
			break
		}
		in.ExclusiveStartKey = page.LastEvaluatedKey
	}

	truncated := len(items) > limit
	if truncated {
		items = items[:limit]
	}

	res := Page{Items: items}
	if (truncated || !exhausted) && len(items) > 0 {
		last := items[len(items)-1]
		res.Next = &Cursor{PK: last.PK, SK: last.SK}
	}
	return res, nil
}
