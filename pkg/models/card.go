package models

// Printing holds the attributes shared by a catalog card and every copy of it
// (collection instance, deck card).
type Printing struct {
	OracleName string `dynamodbav:"OracleName" json:"OracleName"`
	SetName    string `dynamodbav:"SetName" json:"SetName"`
	ReleasedAt string `dynamodbav:"ReleasedAt" json:"ReleasedAt"` // YYYY-MM-DD
	Rarity     string `dynamodbav:"Rarity" json:"Rarity"`
	Price      string `dynamodbav:"Price" json:"Price"` // EUR, kept as the source string
	OracleID   string `dynamodbav:"OracleId" json:"OracleId"`
	PrintID    string `dynamodbav:"PrintId" json:"PrintId"`
}

// Face is one printed side of a card.
type Face struct {
	OracleText          string   `dynamodbav:"OracleText" json:"OracleText"`
	ManaCost            string   `dynamodbav:"ManaCost" json:"ManaCost"`
	TypeLine            string   `dynamodbav:"TypeLine" json:"TypeLine"`
	FaceName            string   `dynamodbav:"FaceName" json:"FaceName"`
	FlavorText          string   `dynamodbav:"FlavorText" json:"FlavorText"`
	ImageURL            string   `dynamodbav:"ImageUrl" json:"ImageUrl"`
	Colors              []string `dynamodbav:"Colors" json:"Colors"` // never nil
	LowercaseFaceName   string   `dynamodbav:"LowercaseFaceName" json:"LowercaseFaceName"`
	LowercaseOracleText string   `dynamodbav:"LowercaseOracleText" json:"LowercaseOracleText"`
}

// Card is the normalized catalog item, keyed by oracle and print identity.
//
// CombinedLowercaseOracleText is derived from CardFaces and only exists to
// serve substring search. RemoveAt is the table TTL and never leaves the API.
type Card struct {
	PK string `dynamodbav:"PK" json:"PK"` // OracleId#<oracle>
	SK string `dynamodbav:"SK" json:"SK"` // PrintId#<print>
	Printing

	LowerCaseOracleName         string `dynamodbav:"LowerCaseOracleName" json:"LowerCaseOracleName"`
	CombinedLowercaseOracleText string `dynamodbav:"CombinedLowercaseOracleText" json:"CombinedLowercaseOracleText"`
	CardFaces                   []Face `dynamodbav:"CardFaces" json:"CardFaces"`

	RemoveAt int64 `dynamodbav:"RemoveAt,omitempty" json:"-"`
}

func CardPK(oracleID string) string { return "OracleId#" + oracleID }
func CardSK(printID string) string { return "PrintId#" + printID }
