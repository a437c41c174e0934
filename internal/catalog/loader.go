package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"cardvault/pkg/database"
	"cardvault/pkg/logger"
)

// BatchWriter persists one batch of at most database.MaxBatchSize items.
type BatchWriter[T any] interface {
	Put(ctx context.Context, items []T) error
}

// Projection maps a raw bulk entry to a stored item. An error skips the entry.
type Projection[T any] func(raw json.RawMessage) (T, error)

type Report struct {
	Read    int `json:"read"`
	Skipped int `json:"skipped"`
	Written int `json:"written"`
	Batches int `json:"batches"`
}

// Loader drains a Stream into a BatchWriter in fixed-size batches.
type Loader[T any] struct {
	Project   Projection[T]
	Sink      BatchWriter[T]
	BatchSize int
	// MaxRecords stops the run after that many projected items; 0 means no cap.
	MaxRecords int
	Log        *logger.Logger
}

func NewLoader[T any](project Projection[T], sink BatchWriter[T], log *logger.Logger) *Loader[T] {
	return &Loader[T]{
		Project:   project,
		Sink:      sink,
		BatchSize: database.MaxBatchSize,
		Log:       log,
	}
}

// Load consumes src until it is exhausted or MaxRecords items were projected,
// flushing every full batch and then whatever remains. Store errors abort.
func (l *Loader[T]) Load(ctx context.Context, src *Stream) (Report, error) {
	size := l.BatchSize
	if size <= 0 || size > database.MaxBatchSize {
		size = database.MaxBatchSize
	}

	var rep Report
	pending := make([]T, 0, size)

	flush := func(items []T) error {
		if len(items) == 0 {
			return nil
		}
		if err := l.Sink.Put(ctx, items); err != nil {
			return fmt.Errorf("flush batch %d: %w", rep.Batches+1, err)
		}
		rep.Batches++
		rep.Written += len(items)
		return nil
	}

	accepted := 0
	for src.Next() {
		raw := src.Raw()
		rep.Read++

		item, err := l.Project(raw)
		if err != nil {
			rep.Skipped++
			l.Log.Error("skipping catalog record", "error", err, "record", string(raw))
			continue
		}

		pending = append(pending, item)
		accepted++
		if len(pending) >= size {
			if err := flush(pending[:size]); err != nil {
				return rep, err
			}
			pending = append(make([]T, 0, size), pending[size:]...)
		}

		if l.MaxRecords > 0 && accepted >= l.MaxRecords {
			l.Log.Info("record cap reached", "max_records", l.MaxRecords)
			break
		}
	}
	if err := src.Err(); err != nil {
		return rep, fmt.Errorf("read catalog: %w", err)
	}

	if err := flush(pending); err != nil {
		return rep, err
	}
	return rep, nil
}
