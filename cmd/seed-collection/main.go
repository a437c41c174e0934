package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"cardvault/internal/collection"
	"cardvault/pkg/database"
	"cardvault/pkg/logger"
	"cardvault/pkg/models"
	"cardvault/pkg/utils"
)

func main() {
	log := logger.MustNew(utils.GetEnv("LOG_MODE", "dev", nil))
	defer log.Sync()

	tables := utils.LoadTablesConfig(log)
	cfg := utils.LoadSeedConfig(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := os.Open(cfg.ScratchPath)
	if err != nil {
		log.Fatal("cannot open catalog file", "path", cfg.ScratchPath, "error", err)
	}
	defer f.Close()

	db := database.MustOpen(ctx, database.Config{Endpoint: tables.Endpoint})

	seed := &collection.Seed{
		UserID:     cfg.UserID,
		MaxRecords: cfg.MaxRecords,
		Sink:       database.NewBatch[models.CardInstance](db, tables.Collection),
		Log:        log.With("job", "seed-collection", "table", tables.Collection),
	}

	rep, err := seed.Run(ctx, f)
	if errors.Is(err, collection.ErrNoUser) {
		log.Fatal("USERID must be set")
	}
	if err != nil {
		log.Fatal("seed failed", "error", err, "written", rep.Written)
	}
}
