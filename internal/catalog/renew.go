package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"cardvault/pkg/logger"
	"cardvault/pkg/models"
)

var ErrUpdateFrequency = errors.New("update frequency must be at least one day")

// Renew refreshes the card table from the bulk-data provider:
// manifest -> entry -> download -> (archive) -> stream -> normalize -> batch write.
type Renew struct {
	Bulk            *Bulk
	EntryType       string
	ScratchPath     string
	UpdateFrequency int
	Sink            BatchWriter[models.Card]
	Archive         *Archive // optional
	Log             *logger.Logger
	Now             func() time.Time
}

// Run executes one refresh. Manifest and download failures end the run
// before anything is written.
func (r *Renew) Run(ctx context.Context) (Report, error) {
	if r.UpdateFrequency < 1 {
		return Report{}, fmt.Errorf("renew: %w: %d", ErrUpdateFrequency, r.UpdateFrequency)
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	started := now()
	removeAt := TTL(started, r.UpdateFrequency)
	log := r.Log.With("entry_type", r.EntryType, "remove_at", removeAt)

	entry, err := r.Bulk.Locate(ctx, r.EntryType)
	if err != nil {
		log.Error("failed to fetch bulk data manifest", "error", err)
		return Report{}, fmt.Errorf("discover catalog: %w", err)
	}
	log.Info("located bulk data entry", "download_uri", entry.DownloadURI)

	n, err := r.Bulk.Download(ctx, entry.DownloadURI, r.ScratchPath)
	if err != nil {
		log.Error("failed to download catalog", "error", err)
		return Report{}, fmt.Errorf("download catalog: %w", err)
	}
	log.Info("downloaded catalog", "path", r.ScratchPath, "bytes", n)

	if r.Archive != nil {
		key, err := r.Archive.Store(ctx, r.ScratchPath, started)
		if err != nil {
			// the refresh itself does not depend on the archive
			log.Warn("failed to archive catalog", "error", err)
		} else {
			log.Info("archived catalog", "bucket", r.Archive.Bucket, "key", key)
		}
	}

	f, err := os.Open(r.ScratchPath)
	if err != nil {
		return Report{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	loader := NewLoader[models.Card](CardProjection(removeAt), r.Sink, log)
	rep, err := loader.Load(ctx, NewStream(f))
	if err != nil {
		log.Error("catalog load aborted", "error", err, "read", rep.Read, "written", rep.Written)
		return rep, err
	}
	log.Info("catalog refresh finished", "read", rep.Read, "skipped", rep.Skipped, "written", rep.Written, "batches", rep.Batches)
	return rep, nil
}

// CardProjection decodes and normalizes a bulk entry with a fixed watermark.
func CardProjection(removeAt int64) Projection[models.Card] {
	return func(raw json.RawMessage) (models.Card, error) {
		rec, err := DecodeRecord(raw)
		if err != nil {
			return models.Card{}, err
		}
		return Normalize(rec, removeAt)
	}
}
