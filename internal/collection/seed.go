package collection

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"

	"github.com/google/uuid"

	"cardvault/internal/catalog"
	"cardvault/pkg/logger"
	"cardvault/pkg/models"
)

const DefaultSeedRecords = 13000

var ErrNoUser = errors.New("seed: user id required")

// Seed fills one user's collection straight from a local bulk file.
type Seed struct {
	UserID     string
	MaxRecords int
	Sink       catalog.BatchWriter[models.CardInstance]
	Log        *logger.Logger

	// Condition and NewID default to a random grade and a v4 uuid.
	Condition func() string
	NewID     func() string
}

func RandomCondition() string {
	return models.Conditions[rand.IntN(len(models.Conditions))]
}

func (s *Seed) Run(ctx context.Context, r io.Reader) (catalog.Report, error) {
	if s.UserID == "" {
		return catalog.Report{}, ErrNoUser
	}
	condition, newID := s.Condition, s.NewID
	if condition == nil {
		condition = RandomCondition
	}
	if newID == nil {
		newID = uuid.NewString
	}
	max := s.MaxRecords
	if max <= 0 {
		max = DefaultSeedRecords
	}

	log := s.Log.With("user_id", s.UserID, "max_records", max)
	loader := catalog.NewLoader(InstanceProjection(s.UserID, condition, newID), s.Sink, log)
	loader.MaxRecords = max

	rep, err := loader.Load(ctx, catalog.NewStream(r))
	if err != nil {
		log.Error("seed aborted", "error", err, "written", rep.Written)
		return rep, err
	}
	log.Info("seed finished", "read", rep.Read, "skipped", rep.Skipped, "written", rep.Written)
	return rep, nil
}

// InstanceProjection turns a bulk entry into an owned copy. Seeded copies
// never expire.
func InstanceProjection(userID string, condition, newID func() string) catalog.Projection[models.CardInstance] {
	return func(raw json.RawMessage) (models.CardInstance, error) {
		rec, err := catalog.DecodeRecord(raw)
		if err != nil {
			return models.CardInstance{}, err
		}
		card, err := catalog.Normalize(rec, 0)
		if err != nil {
			return models.CardInstance{}, err
		}
		return models.NewCardInstance(card, userID, newID(), condition(), ""), nil
	}
}
