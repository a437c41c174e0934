package cards

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cardvault/pkg/logger"
)

type Handler struct {
	Repo *Repo
	Log  *logger.Logger
}

func NewHandler(repo *Repo, log *logger.Logger) *Handler {
	return &Handler{Repo: repo, Log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)                // GET /cards/search?q=
	rg.GET("/:oracle_id", h.listByOracle)      // GET /cards/:oracle_id
	rg.GET("/:oracle_id/:print_id", h.getByID) // GET /cards/:oracle_id/:print_id
}

func (h *Handler) getByID(c *gin.Context) {
	card, err := h.Repo.Get(c.Request.Context(), c.Param("oracle_id"), c.Param("print_id"))
	if err != nil {
		h.Log.Error("fetch card failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"Message": "Server error while fetching card."})
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"Message": "Card not found."})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) listByOracle(c *gin.Context) {
	items, err := h.Repo.ListByOracle(c.Request.Context(), c.Param("oracle_id"))
	if err != nil {
		h.Log.Error("fetch cards failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"Message": "Server error while fetching card."})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"Message": "Card not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"Items": items})
}

func (h *Handler) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusNotAcceptable, gin.H{"message": "query string parameter not provided"})
		return
	}

	items, err := h.Repo.Search(c.Request.Context(), q)
	if err != nil {
		h.Log.Error("card search failed", "query", q, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "search failed"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"Items": items})
}
