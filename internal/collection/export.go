package collection

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
)

var exportHeader = []string{
	"card_instance_id", "oracle_id", "print_id", "name", "set_name",
	"released_at", "rarity", "price", "condition", "deck_id",
}

// ExportCSV pages through a user's whole collection and writes one row per
// copy. It returns the number of rows written.
func (r *Repo) ExportCSV(ctx context.Context, userID string, out io.Writer) (int, error) {
	w := csv.NewWriter(out)
	if err := w.Write(exportHeader); err != nil {
		return 0, err
	}

	n := 0
	q := SearchQuery{UserID: userID, Limit: 500}
	for {
		page, err := r.Search(ctx, q)
		if err != nil {
			return n, fmt.Errorf("export collection: %w", err)
		}
		for _, inst := range page.Items {
			if err := w.Write([]string{
				inst.CardInstanceID, inst.OracleID, inst.PrintID, inst.OracleName, inst.SetName,
				inst.ReleasedAt, inst.Rarity, inst.Price, inst.Condition, inst.DeckID,
			}); err != nil {
				return n, err
			}
			n++
		}
		if page.Next == nil {
			break
		}
		q.After = page.Next
	}

	w.Flush()
	return n, w.Error()
}
