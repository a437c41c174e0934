package decks

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
)

type Repo struct {
	DB    database.DynamoDB
	Table string
}

func NewRepo(db database.DynamoDB, table string) *Repo {
	return &Repo{DB: db, Table: table}
}

func (r *Repo) CreateDeck(ctx context.Context, deck models.Deck) error {
	if err := database.PutItem(ctx, r.DB, r.Table, deck); err != nil {
		return fmt.Errorf("put deck: %w", err)
	}
	return nil
}

func (r *Repo) query(kc expression.KeyConditionBuilder) (*dynamodb.QueryInput, error) {
	expr, err := expression.NewBuilder().WithKeyCondition(kc).Build()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return &dynamodb.QueryInput{
		TableName:                 aws.String(r.Table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}, nil
}

func (r *Repo) ListDecks(ctx context.Context, userID string) ([]models.Deck, error) {
	in, err := r.query(expression.KeyAnd(
		expression.Key("PK").Equal(expression.Value(models.DeckPK(userID))),
		expression.Key("SK").BeginsWith(models.DeckSK("")),
	))
	if err != nil {
		return nil, err
	}
	decks, err := database.QueryAll[models.Deck](ctx, r.DB, in)
	if err != nil {
		return nil, fmt.Errorf("query decks: %w", err)
	}
	return decks, nil
}

func (r *Repo) GetDeck(ctx context.Context, userID, deckID string) (*models.Deck, error) {
	deck, err := database.GetItem[models.Deck](ctx, r.DB, r.Table,
		database.Key(models.DeckPK(userID), models.DeckSK(deckID)))
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}
	return deck, nil
}

func (r *Repo) ListCards(ctx context.Context, userID, deckID string) ([]models.DeckCard, error) {
	in, err := r.query(expression.KeyAnd(
		expression.Key("PK").Equal(expression.Value(models.DeckCardPK(userID, deckID))),
		expression.Key("SK").BeginsWith(models.DeckCardSK("")),
	))
	if err != nil {
		return nil, err
	}
	cards, err := database.QueryAll[models.DeckCard](ctx, r.DB, in)
	if err != nil {
		return nil, fmt.Errorf("query deck cards: %w", err)
	}
	return cards, nil
}

func (r *Repo) GetCard(ctx context.Context, userID, deckID, deckCardID string) (*models.DeckCard, error) {
	card, err := database.GetItem[models.DeckCard](ctx, r.DB, r.Table,
		database.Key(models.DeckCardPK(userID, deckID), models.DeckCardSK(deckCardID)))
	if err != nil {
		return nil, fmt.Errorf("get deck card: %w", err)
	}
	return card, nil
}

func (r *Repo) PutCard(ctx context.Context, card models.DeckCard) error {
	if err := database.PutItem(ctx, r.DB, r.Table, card); err != nil {
		return fmt.Errorf("put deck card: %w", err)
	}
	return nil
}

func (r *Repo) DeleteCard(ctx context.Context, userID, deckID, deckCardID string) error {
	_, err := r.DB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.Table),
		Key:       database.Key(models.DeckCardPK(userID, deckID), models.DeckCardSK(deckCardID)),
	})
	if err != nil {
		return fmt.Errorf("delete deck card: %w", err)
	}
	return nil
}

// update applies u to an existing deck card and returns the new item, or nil
// when there is no such card.
func (r *Repo) update(ctx context.Context, userID, deckID, deckCardID string, u expression.UpdateBuilder) (*models.DeckCard, error) {
	expr, err := expression.NewBuilder().
		WithUpdate(u).
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}

	out, err := r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.Table),
		Key:                       database.Key(models.DeckCardPK(userID, deckID), models.DeckCardSK(deckCardID)),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if database.IsConditionFailed(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("update deck card: %w", err)
	}

	var card models.DeckCard
	if err := attributevalue.UnmarshalMap(out.Attributes, &card); err != nil {
		return nil, fmt.Errorf("decode deck card: %w", err)
	}
	return &card, nil
}

func (r *Repo) SetLocation(ctx context.Context, userID, deckID, deckCardID, location string) (*models.DeckCard, error) {
	return r.update(ctx, userID, deckID, deckCardID,
		expression.Set(expression.Name("card_location"), expression.Value(location)))
}

// Reprint copies a printing onto a deck card. An empty instanceID drops the
// link to a collection copy.
func (r *Repo) Reprint(ctx context.Context, userID, deckID, deckCardID string, card models.Card, instanceID string) (*models.DeckCard, error) {
	u := expression.Set(expression.Name("OracleName"), expression.Value(card.OracleName)).
		Set(expression.Name("SetName"), expression.Value(card.SetName)).
		Set(expression.Name("ReleasedAt"), expression.Value(card.ReleasedAt)).
		Set(expression.Name("Rarity"), expression.Value(card.Rarity)).
		Set(expression.Name("Price"), expression.Value(card.Price)).
		Set(expression.Name("OracleId"), expression.Value(card.OracleID)).
		Set(expression.Name("PrintId"), expression.Value(card.PrintID)).
		Set(expression.Name("CardFaces"), expression.Value(models.DeckFaces(card.CardFaces)))
	if instanceID != "" {
		u = u.Set(expression.Name("card_instance_id"), expression.Value(instanceID))
	} else {
		u = u.Remove(expression.Name("card_instance_id"))
	}
	return r.update(ctx, userID, deckID, deckCardID, u)
}

func (r *Repo) Unlink(ctx context.Context, userID, deckID, deckCardID string) (*models.DeckCard, error) {
	return r.update(ctx, userID, deckID, deckCardID,
		expression.Remove(expression.Name("card_instance_id")))
}
