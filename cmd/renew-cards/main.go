package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"cardvault/internal/catalog"
	"cardvault/pkg/database"
	"cardvault/pkg/logger"
	"cardvault/pkg/models"
	"cardvault/pkg/utils"
)

func main() {
	log := logger.MustNew(utils.GetEnv("LOG_MODE", "dev", nil))
	defer log.Sync()

	tables := utils.LoadTablesConfig(log)
	cfg := utils.LoadCatalogConfig(log)

	awsCfg, err := database.LoadAWSConfig(context.Background())
	if err != nil {
		log.Fatal("aws config failed", "error", err)
	}
	db := database.NewClient(awsCfg, database.Config{Endpoint: tables.Endpoint})

	job := &catalog.Renew{
		Bulk:            catalog.NewBulk(cfg.BulkDataURL),
		EntryType:       cfg.BulkDataType,
		ScratchPath:     cfg.ScratchPath,
		UpdateFrequency: cfg.UpdateFrequency,
		Sink:            database.NewBatch[models.Card](db, tables.Cards),
		Log:             log.With("job", "renew-cards", "table", tables.Cards),
		Now:             time.Now,
	}
	if cfg.ArchiveBucket != "" {
		job.Archive = catalog.NewArchive(s3.NewFromConfig(awsCfg), cfg.ArchiveBucket)
	}

	if _, ok := os.LookupEnv("AWS_LAMBDA_FUNCTION_NAME"); ok {
		lambda.Start(job.Run)
		return
	}

	if _, err := job.Run(context.Background()); err != nil {
		log.Fatal("renew failed", "error", err)
	}
}
