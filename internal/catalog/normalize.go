package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cardvault/pkg/models"
	"cardvault/pkg/utils"
)

// expiryOffset keeps an item alive past the next scheduled refresh.
const expiryOffset = 3 * time.Hour

var ErrMissingField = errors.New("missing required field")

// TTL returns the RemoveAt watermark for a run starting at now.
func TTL(now time.Time, updateFrequencyDays int) int64 {
	return now.Unix() + int64(expiryOffset/time.Second) + int64(updateFrequencyDays)*24*60*60
}

// Normalize turns one bulk record into a stored card.
func Normalize(rec Record, removeAt int64) (models.Card, error) {
	oracleID, err := oracleIdentity(rec)
	if err != nil {
		return models.Card{}, err
	}

	for _, req := range []struct {
		field string
		val   *string
	}{
		{"id", rec.ID},
		{"name", rec.Name},
		{"set_name", rec.SetName},
		{"released_at", rec.ReleasedAt},
		{"rarity", rec.Rarity},
	} {
		if req.val == nil {
			return models.Card{}, fmt.Errorf("%w: %s", ErrMissingField, req.field)
		}
	}
	if rec.Prices == nil {
		return models.Card{}, fmt.Errorf("%w: prices", ErrMissingField)
	}

	price := defaultPrice
	if rec.Prices.EUR != nil {
		price = *rec.Prices.EUR
	}

	faces := materializeFaces(rec)

	return models.Card{
		PK: models.CardPK(oracleID),
		SK: models.CardSK(*rec.ID),
		Printing: models.Printing{
			OracleName: *rec.Name,
			SetName:    *rec.SetName,
			ReleasedAt: *rec.ReleasedAt,
			Rarity:     *rec.Rarity,
			Price:      price,
			OracleID:   oracleID,
			PrintID:    *rec.ID,
		},
		LowerCaseOracleName:         utils.Fold(*rec.Name),
		CombinedLowercaseOracleText: CombinedText(faces),
		CardFaces:                   faces,
		RemoveAt:                    removeAt,
	}, nil
}

// Reversible cards carry two independent cards under one print, so the
// oracle identity lives on the first face.
func oracleIdentity(rec Record) (string, error) {
	if rec.Layout == layoutReversible {
		if !rec.hasFaces() || rec.CardFaces[0].OracleID == "" {
			return "", fmt.Errorf("%w: card_faces[0].oracle_id", ErrMissingField)
		}
		return rec.CardFaces[0].OracleID, nil
	}
	if rec.OracleID == nil {
		return "", fmt.Errorf("%w: oracle_id", ErrMissingField)
	}
	return *rec.OracleID, nil
}

func materializeFaces(rec Record) []models.Face {
	missingImage := rec.ImageStatus == imageStatusMissing

	if !rec.hasFaces() {
		url := png(rec.ImageURIs)
		if missingImage {
			url = ""
		}
		return []models.Face{newFace(rec.Name, rec.OracleText, rec.ManaCost, rec.TypeLine, rec.FlavorText, url, rec.Colors)}
	}

	// The color source is decided once, from the first face only.
	faceColors := rec.CardFaces[0].Colors != nil

	faces := make([]models.Face, 0, len(rec.CardFaces))
	for _, f := range rec.CardFaces {
		var url string
		switch {
		case missingImage:
		case f.ImageURIs != nil:
			url = png(f.ImageURIs)
		default:
			url = png(rec.ImageURIs)
		}

		colors := rec.Colors
		if faceColors {
			colors = f.Colors
		}

		name := f.Name
		faces = append(faces, newFace(&name, f.OracleText, f.ManaCost, f.TypeLine, f.FlavorText, url, colors))
	}
	return faces
}

func newFace(name *string, oracleText, manaCost, typeLine, flavorText, imageURL string, colors []string) models.Face {
	var n string
	if name != nil {
		n = *name
	}
	return models.Face{
		OracleText:          oracleText,
		ManaCost:            manaCost,
		TypeLine:            typeLine,
		FaceName:            n,
		FlavorText:          flavorText,
		ImageURL:            imageURL,
		Colors:              colorsOrEmpty(colors),
		LowercaseFaceName:   utils.Fold(n),
		LowercaseOracleText: utils.Fold(oracleText),
	}
}

// CombinedText joins the lowercase oracle text of every face, each followed
// by a single space.
func CombinedText(faces []models.Face) string {
	var b strings.Builder
	for _, f := range faces {
		b.WriteString(f.LowercaseOracleText)
		b.WriteByte(' ')
	}
	return b.String()
}
