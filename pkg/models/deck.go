package models

const (
	DataTypeDeck     = "DECK"
	DataTypeDeckCard = "DECK_CARD"
)

// Deck card locations.
var DeckLocations = []string{"COMMANDER", "MAIN_DECK", "SIDE_DECK"}

func IsDeckLocation(s string) bool {
	for _, l := range DeckLocations {
		if l == s {
			return true
		}
	}
	return false
}

type Deck struct {
	PK       string `dynamodbav:"PK" json:"-"` // USER#<sub>
	SK       string `dynamodbav:"SK" json:"-"` // DECK#<id>
	DataType string `dynamodbav:"data_type" json:"-"`
	UserID   string `dynamodbav:"user_id" json:"-"`
	DeckID   string `dynamodbav:"deck_id" json:"id"`
	DeckName string `dynamodbav:"deck_name" json:"name"`
}

// DeckFace is a Face without the search-only lowercase fields.
type DeckFace struct {
	OracleText string   `dynamodbav:"OracleText" json:"OracleText"`
	ManaCost   string   `dynamodbav:"ManaCost" json:"ManaCost"`
	TypeLine   string   `dynamodbav:"TypeLine" json:"TypeLine"`
	FaceName   string   `dynamodbav:"FaceName" json:"FaceName"`
	FlavorText string   `dynamodbav:"FlavorText" json:"FlavorText"`
	ImageURL   string   `dynamodbav:"ImageUrl" json:"ImageUrl"`
	Colors     []string `dynamodbav:"Colors" json:"Colors"`
}

type DeckCard struct {
	PK             string `dynamodbav:"PK" json:"PK"` // USER#<sub>#DECK#<deck>
	SK             string `dynamodbav:"SK" json:"SK"` // DECK_CARD#<id>
	DataType       string `dynamodbav:"data_type" json:"data_type"`
	UserID         string `dynamodbav:"user_id" json:"user_id"`
	DeckID         string `dynamodbav:"deck_id" json:"deck_id"`
	DeckCardID     string `dynamodbav:"deck_card_id" json:"deck_card_id"`
	CardLocation   string `dynamodbav:"card_location" json:"card_location"`
	CardInstanceID string `dynamodbav:"card_instance_id,omitempty" json:"card_instance_id,omitempty"`
	Printing
	CardFaces []DeckFace `dynamodbav:"CardFaces" json:"CardFaces"`
}

func DeckPK(userID string) string { return "USER#" + userID }
func DeckSK(deckID string) string { return "DECK#" + deckID }
func DeckCardPK(userID, deckID string) string { return "USER#" + userID + "#DECK#" + deckID }
func DeckCardSK(deckCardID string) string { return "DECK_CARD#" + deckCardID }

// DeckFaces strips the search-only fields off catalog faces.
func DeckFaces(faces []Face) []DeckFace {
	out := make([]DeckFace, 0, len(faces))
	for _, f := range faces {
		colors := f.Colors
		if colors == nil {
			colors = []string{}
		}
		out = append(out, DeckFace{
			OracleText: f.OracleText,
			ManaCost:   f.ManaCost,
			TypeLine:   f.TypeLine,
			FaceName:   f.FaceName,
			FlavorText: f.FlavorText,
			ImageURL:   f.ImageURL,
			Colors:     colors,
		})
	}
	return out
}
