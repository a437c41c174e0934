package catalog

import (
	"encoding/json"
	"fmt"
)

const (
	layoutReversible   = "reversible_card"
	imageStatusMissing = "missing"
	imageRendition     = "png"
	defaultPrice       = "0.00"
)

// Record is the subset of a bulk catalog entry the normalizer reads.
// Pointer fields are required; a nil pointer means the key was absent or null.
// Colors and ImageURIs use nil for absent.
type Record struct {
	ID         *string `json:"id"`
	OracleID   *string `json:"oracle_id"`
	Layout     string  `json:"layout"`
	Name       *string `json:"name"`
	SetName    *string `json:"set_name"`
	ReleasedAt *string `json:"released_at"`
	Rarity     *string `json:"rarity"`
	Prices     *Prices `json:"prices"`

	OracleText  string            `json:"oracle_text"`
	ManaCost    string            `json:"mana_cost"`
	TypeLine    string            `json:"type_line"`
	FlavorText  string            `json:"flavor_text"`
	Colors      []string          `json:"colors"`
	ImageURIs   map[string]string `json:"image_uris"`
	ImageStatus string            `json:"image_status"`

	CardFaces []RecordFace `json:"card_faces"`
}

type Prices struct {
	EUR *string `json:"eur"`
}

type RecordFace struct {
	OracleID   string            `json:"oracle_id"`
	Name       string            `json:"name"`
	OracleText string            `json:"oracle_text"`
	ManaCost   string            `json:"mana_cost"`
	TypeLine   string            `json:"type_line"`
	FlavorText string            `json:"flavor_text"`
	Colors     []string          `json:"colors"`
	ImageURIs  map[string]string `json:"image_uris"`
}

// DecodeRecord parses one raw bulk entry.
func DecodeRecord(raw json.RawMessage) (Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

func (r Record) hasFaces() bool { return len(r.CardFaces) > 0 }

func png(uris map[string]string) string {
	return uris[imageRendition]
}

func colorsOrEmpty(c []string) []string {
	if c == nil {
		return []string{}
	}
	out := make([]string, len(c))
	copy(out, c)
	return out
}
