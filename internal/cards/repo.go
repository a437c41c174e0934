package cards

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"cardvault/pkg/database"
	"cardvault/pkg/models"
	"cardvault/pkg/utils"
)

type Repo struct {
	DB    database.DynamoDB
	Table string
}

func NewRepo(db database.DynamoDB, table string) *Repo {
	return &Repo{DB: db, Table: table}
}

// Get returns one printing, or nil when the catalog does not have it.
func (r *Repo) Get(ctx context.Context, oracleID, printID string) (*models.Card, error) {
	card, err := database.GetItem[models.Card](ctx, r.DB, r.Table,
		database.Key(models.CardPK(oracleID), models.CardSK(printID)))
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	return card, nil
}

// ListByOracle returns every printing of an oracle.
func (r *Repo) ListByOracle(ctx context.Context, oracleID string) ([]models.Card, error) {
	expr, err := expression.NewBuilder().
		WithKeyCondition(expression.Key("PK").Equal(expression.Value(models.CardPK(oracleID)))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	cards, err := database.QueryAll[models.Card](ctx, r.DB, &dynamodb.QueryInput{
		TableName:                 aws.String(r.Table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	return cards, nil
}

// Latest returns the most recently released printing of an oracle.
func (r *Repo) Latest(ctx context.Context, oracleID string) (*models.Card, error) {
	cards, err := r.ListByOracle(ctx, oracleID)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, nil
	}

	latest := cards[0]
	for _, c := range cards[1:] {
		// ISO dates sort lexically
		if c.ReleasedAt > latest.ReleasedAt {
			latest = c
		}
	}
	return &latest, nil
}

// Search scans for cards whose name or rules text contains q.
func (r *Repo) Search(ctx context.Context, q string) ([]models.Card, error) {
	q = utils.Fold(q)
	filter := expression.Or(
		expression.Name("LowerCaseOracleName").Contains(q),
		expression.Name("CombinedLowercaseOracleText").Contains(q),
	)
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("build scan: %w", err)
	}

	cards, err := database.ScanAll[models.Card](ctx, r.DB, &dynamodb.ScanInput{
		TableName:                 aws.String(r.Table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("scan cards: %w", err)
	}
	return cards, nil
}
