package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"cardvault/internal/collection"
	"cardvault/pkg/database"
	"cardvault/pkg/logger"
	"cardvault/pkg/utils"
)

func main() {
	var (
		userID = flag.String("user", os.Getenv("USERID"), "user id (Cognito sub) whose collection is exported")
		out    = flag.String("out", "data/collection.csv", "output CSV path")
	)
	flag.Parse()

	log := logger.MustNew(utils.GetEnv("LOG_MODE", "dev", nil))
	defer log.Sync()

	if *userID == "" {
		log.Fatal("-user or USERID is required")
	}
	tables := utils.LoadTablesConfig(log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db := database.MustOpen(ctx, database.Config{Endpoint: tables.Endpoint})
	repo := collection.NewRepo(db, tables.Collection)

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatal("cannot create output dir", "error", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		log.Fatal("cannot create output file", "path", *out, "error", err)
	}
	defer f.Close()

	n, err := repo.ExportCSV(ctx, *userID, f)
	if err != nil {
		log.Fatal("export collection failed", "error", err, "rows", n)
	}
	log.Info("exported collection", "user_id", *userID, "rows", n, "path", *out)
}
