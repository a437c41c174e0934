package cards

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/fogfish/it"
	"github.com/gin-gonic/gin"

	"cardvault/internal/ddbtest"
	"cardvault/pkg/logger"
	"cardvault/pkg/models"
)

func init() { gin.SetMode(gin.TestMode) }

func card(oracle, print, released string) models.Card {
	return models.Card{
		PK: models.CardPK(oracle),
		SK: models.CardSK(print),
		Printing: models.Printing{
			OracleName: "Llanowar Elves",
			SetName:    "Dominaria",
			ReleasedAt: released,
			Rarity:     "common",
			Price:      "0.25",
			OracleID:   oracle,
			PrintID:    print,
		},
		LowerCaseOracleName: "llanowar elves",
		CardFaces:           []models.Face{{FaceName: "Llanowar Elves", Colors: []string{"G"}}},
		RemoveAt:            1700000000,
	}
}

func item(t *testing.T, c models.Card) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return av
}

func serve(db *ddbtest.Mock, path string) *httptest.ResponseRecorder {
	r := gin.New()
	NewHandler(NewRepo(db, "cards"), logger.Nop()).RegisterRoutes(r.Group("/cards"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetCard(t *testing.T) {
	db := &ddbtest.Mock{
		OnGetItem: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: item(t, card("o-1", "p-1", "2018-04-27"))}, nil
		},
	}
	w := serve(db, "/cards/o-1/p-1")

	key := db.Gets[0].Key
	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusOK).
		If(key["PK"].(*types.AttributeValueMemberS).Value).Should().Equal("OracleId#o-1").
		If(key["SK"].(*types.AttributeValueMemberS).Value).Should().Equal("PrintId#p-1").
		IfTrue(strings.Contains(w.Body.String(), `"PrintId":"p-1"`)).
		IfTrue(!strings.Contains(w.Body.String(), "RemoveAt"))
}

func TestGetCardNotFound(t *testing.T) {
	db := &ddbtest.Mock{
		OnGetItem: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{}, nil
		},
	}
	w := serve(db, "/cards/o-1/p-404")

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusNotFound).
		If(w.Body.String()).Should().Equal(`{"Message":"Card not found."}`)
}

func TestGetCardStoreFailure(t *testing.T) {
	db := &ddbtest.Mock{
		OnGetItem: func(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return nil, &ddbtest.APIError{Code: "InternalServerError"}
		},
	}
	w := serve(db, "/cards/o-1/p-1")

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusInternalServerError).
		If(w.Body.String()).Should().Equal(`{"Message":"Server error while fetching card."}`)
}

func TestListByOracleFollowsPages(t *testing.T) {
	pages := []*dynamodb.QueryOutput{
		{
			Items:            []map[string]types.AttributeValue{item(t, card("o-1", "p-1", "2018-04-27"))},
			LastEvaluatedKey: map[string]types.AttributeValue{"PK": &types.AttributeValueMemberS{Value: "x"}},
		},
		{Items: []map[string]types.AttributeValue{item(t, card("o-1", "p-2", "2020-01-01"))}},
	}
	db := &ddbtest.Mock{
		OnQuery: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			page := pages[0]
			pages = pages[1:]
			return page, nil
		},
	}
	w := serve(db, "/cards/o-1")

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusOK).
		If(len(db.Queries)).Should().Equal(2).
		IfNotNil(db.Queries[1].ExclusiveStartKey).
		IfTrue(strings.Contains(w.Body.String(), `"PrintId":"p-2"`))
}

func TestListByOracleEmpty(t *testing.T) {
	db := &ddbtest.Mock{
		OnQuery: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{}, nil
		},
	}
	w := serve(db, "/cards/o-unknown")

	it.Ok(t).If(w.Code).Should().Equal(http.StatusNotFound)
}

func TestLatestPicksNewestRelease(t *testing.T) {
	db := &ddbtest.Mock{
		OnQuery: func(in *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{
				item(t, card("o-1", "p-old", "1993-08-05")),
				item(t, card("o-1", "p-new", "2023-09-08")),
				item(t, card("o-1", "p-mid", "2018-04-27")),
			}}, nil
		},
	}
	latest, err := NewRepo(db, "cards").Latest(context.Background(), "o-1")

	it.Ok(t).
		IfNil(err).
		If(latest.PrintID).Should().Equal("p-new")
}

func TestSearchRequiresQuery(t *testing.T) {
	w := serve(&ddbtest.Mock{}, "/cards/search")

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusNotAcceptable).
		If(w.Body.String()).Should().Equal(`{"message":"query string parameter not provided"}`)
}

func TestSearchFoldsQuery(t *testing.T) {
	db := &ddbtest.Mock{
		OnScan: func(in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
			return &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{item(t, card("o-1", "p-1", "2018-04-27"))}}, nil
		},
	}
	w := serve(db, "/cards/search?q=LLANOWAR")

	var values []string
	for _, v := range db.Scans[0].ExpressionAttributeValues {
		values = append(values, v.(*types.AttributeValueMemberS).Value)
	}
	var names []string
	for _, n := range db.Scans[0].ExpressionAttributeNames {
		names = append(names, n)
	}

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusOK).
		If(values).Should().Equal([]string{"llanowar", "llanowar"}).
		IfTrue(strings.Contains(*db.Scans[0].FilterExpression, "OR")).
		IfTrue(strings.Contains(strings.Join(names, ","), "LowerCaseOracleName")).
		IfTrue(strings.Contains(strings.Join(names, ","), "CombinedLowercaseOracleText"))
}

func TestSearchNotFound(t *testing.T) {
	db := &ddbtest.Mock{
		OnScan: func(in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
			return &dynamodb.ScanOutput{}, nil
		},
	}
	w := serve(db, "/cards/search?q=nothing")

	it.Ok(t).
		If(w.Code).Should().Equal(http.StatusNotFound).
		If(w.Body.String()).Should().Equal(`{"message":"Not found"}`)
}

func TestSearchStoreFailure(t *testing.T) {
	db := &ddbtest.Mock{
		OnScan: func(in *dynamodb.ScanInput) (*dynamodb.ScanOutput, error) {
			return nil, errors.New("boom")
		},
	}
	w := serve(db, "/cards/search?q=elf")

	it.Ok(t).If(w.Code).Should().Equal(http.StatusInternalServerError)
}
