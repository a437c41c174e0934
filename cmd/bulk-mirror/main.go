package main

import (
	"github.com/gin-gonic/gin"

	"cardvault/internal/catalog"
	"cardvault/pkg/logger"
	"cardvault/pkg/utils"
)

// bulk-mirror serves a local catalog file behind a bulk-data manifest.
// Point BULK_DATA_URL at <MIRROR_BASE_URL>/bulk-data to renew offline.
func main() {
	log := logger.MustNew(utils.GetEnv("LOG_MODE", "dev", nil))
	defer log.Sync()

	cfg := utils.LoadMirrorConfig(log)

	router := gin.Default()
	catalog.NewMirror(cfg.DataPath, cfg.BaseURL, log).RegisterRoutes(&router.RouterGroup)

	log.Info("bulk-mirror listening", "addr", cfg.Addr, "data", cfg.DataPath)
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal("bulk-mirror stopped", "error", err)
	}
}
