package models

// Conditions a physical copy can be graded with.
var Conditions = []string{
	"Mint",
	"Near Mint",
	"Lightly Played",
	"Moderately Played",
	"Heavily Played",
	"Damaged",
}

// CardInstance is one physical copy of a printing owned by a user.
type CardInstance struct {
	PK string `dynamodbav:"PK" json:"PK"` // UserId#<sub>
	SK string `dynamodbav:"SK" json:"SK"` // CardInstanceId#<id>
	Printing

	CardInstanceID string `dynamodbav:"CardInstanceId" json:"CardInstanceId"`
	Condition      string `dynamodbav:"Condition" json:"Condition"`
	DeckID         string `dynamodbav:"DeckId,omitempty" json:"DeckId,omitempty"`

	LowerCaseOracleName         string `dynamodbav:"LowerCaseOracleName" json:"LowerCaseOracleName"`
	CombinedLowercaseOracleText string `dynamodbav:"CombinedLowercaseOracleText" json:"CombinedLowercaseOracleText"`
	CardFaces                   []Face `dynamodbav:"CardFaces" json:"CardFaces"`

	GSI1SK string `dynamodbav:"GSI1SK,omitempty" json:"GSI1SK,omitempty"` // DeckId#<deck>#CardInstanceId#<id>
	GSI2SK string `dynamodbav:"GSI2SK" json:"GSI2SK"`                     // OracleId#<oracle>#CardInstanceId#<id>
}

func CollectionPK(userID string) string { return "UserId#" + userID }
func CollectionSK(instanceID string) string { return "CardInstanceId#" + instanceID }
func CollectionOraclePrefix(oracleID string) string {
	return "OracleId#" + oracleID
}

// NewCardInstance copies a catalog card into a user's collection.
func NewCardInstance(card Card, userID, instanceID, condition, deckID string) CardInstance {
	faces := make([]Face, len(card.CardFaces))
	copy(faces, card.CardFaces)

	inst := CardInstance{
		PK:                          CollectionPK(userID),
		SK:                          CollectionSK(instanceID),
		Printing:                    card.Printing,
		CardInstanceID:              instanceID,
		Condition:                   condition,
		LowerCaseOracleName:         card.LowerCaseOracleName,
		CombinedLowercaseOracleText: card.CombinedLowercaseOracleText,
		CardFaces:                   faces,
		GSI2SK:                      CollectionOraclePrefix(card.OracleID) + "#CardInstanceId#" + instanceID,
	}
	if deckID != "" {
		inst.DeckID = deckID
		inst.GSI1SK = "DeckId#" + deckID + "#CardInstanceId#" + instanceID
	}
	return inst
}
