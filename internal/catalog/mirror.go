package catalog

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cardvault/pkg/logger"
)

const mirrorFileRoute = "/default-cards.json"

// Mirror serves a catalog file from disk behind a bulk-data manifest, so the
// renew job can run without reaching the real provider.
type Mirror struct {
	DataPath  string
	BaseURL   string
	EntryType string
	Log       *logger.Logger
}

func NewMirror(dataPath, baseURL string, log *logger.Logger) *Mirror {
	return &Mirror{
		DataPath:  dataPath,
		BaseURL:   strings.TrimRight(baseURL, "/"),
		EntryType: "default_cards",
		Log:       log,
	}
}

func (m *Mirror) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bulk-data", m.manifest)    // GET /bulk-data
	rg.GET(mirrorFileRoute, m.download) // GET /default-cards.json
}

func (m *Mirror) manifest(c *gin.Context) {
	fi, err := os.Stat(m.DataPath)
	if err != nil {
		m.Log.Error("mirror data unavailable", "path", m.DataPath, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog file not available"})
		return
	}

	c.JSON(http.StatusOK, Manifest{Data: []ManifestEntry{{
		Type:        m.EntryType,
		DownloadURI: m.BaseURL + mirrorFileRoute,
		UpdatedAt:   fi.ModTime().UTC().Format(time.RFC3339),
		Size:        fi.Size(),
	}}})
}

func (m *Mirror) download(c *gin.Context) {
	if _, err := os.Stat(m.DataPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "catalog file not available"})
		return
	}
	c.Header("Content-Type", "application/json")
	c.File(m.DataPath)
}
