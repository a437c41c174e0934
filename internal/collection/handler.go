package collection

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cardvault/internal/auth"
	synchub "cardvault/internal/sync"
	"cardvault/pkg/logger"
	"cardvault/pkg/models"
)

// Catalog resolves a printing from the cards table.
type Catalog interface {
	Get(ctx context.Context, oracleID, printID string) (*models.Card, error)
}

type Handler struct {
	Repo   *Repo
	Cards  Catalog
	Events synchub.Publisher
	Log    *logger.Logger
	NewID  func() string
}

func NewHandler(repo *Repo, cards Catalog, events synchub.Publisher, log *logger.Logger) *Handler {
	if events == nil {
		events = synchub.Discard{}
	}
	return &Handler{
		Repo:   repo,
		Cards:  cards,
		Events: events,
		Log:    log,
		NewID:  uuid.NewString,
	}
}

// RegisterRoutes expects rg to run behind auth.Middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.search)                     // GET /collection?q=&limit=
	rg.POST("", h.add)                       // POST /collection
	rg.GET("/oracle/:oracle_id", h.byOracle) // GET /collection/oracle/:oracle_id
	rg.DELETE("/:instance_id", h.remove)     // DELETE /collection/:instance_id
}

type addReq struct {
	OracleID  string `json:"oracle_id"`
	PrintID   string `json:"print_id"`
	Condition string `json:"condition"`
	DeckID    string `json:"deck_id"`
}

func validCondition(s string) bool {
	for _, c := range models.Conditions {
		if c == s {
			return true
		}
	}
	return false
}

func (h *Handler) add(c *gin.Context) {
	var req addReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"Message": "invalid json"})
		return
	}
	switch {
	case req.OracleID == "":
		c.JSON(http.StatusBadRequest, gin.H{"Message": "Missing 'oracle_id'"})
		return
	case req.PrintID == "":
		c.JSON(http.StatusBadRequest, gin.H{"Message": "Missing 'print_id'"})
		return
	case !validCondition(req.Condition):
		c.JSON(http.StatusBadRequest, gin.H{
			"Message": "Invalid condition: '" + req.Condition + "'. Expected one of: '" + strings.Join(models.Conditions, ", ") + "'",
		})
		return
	}

	ctx := c.Request.Context()
	card, err := h.Cards.Get(ctx, req.OracleID, req.PrintID)
	if err != nil {
		h.Log.Error("fetch card for collection failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"Message": "Server error while fetching card."})
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"Message": "Card not found."})
		return
	}

	userID := auth.UserID(c)
	inst := models.NewCardInstance(*card, userID, h.NewID(), req.Condition, req.DeckID)
	if err := h.Repo.Put(ctx, inst); err != nil {
		h.Log.Error("save card instance failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"Message": "Error while saving the card."})
		return
	}

	h.Events.Publish(synchub.Event{
		Type:           synchub.EventCollectionAdd,
		UserID:         userID,
		CardInstanceID: inst.CardInstanceID,
		OracleID:       inst.OracleID,
		PrintID:        inst.PrintID,
		DeckID:         inst.DeckID,
	})
	c.JSON(http.StatusCreated, inst)
}

func (h *Handler) remove(c *gin.Context) {
	userID := auth.UserID(c)
	instanceID := c.Param("instance_id")
	ctx := c.Request.Context()

	inst, err := h.Repo.Get(ctx, userID, instanceID)
	if err != nil {
		h.Log.Error("fetch card instance failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting card"})
		return
	}
	if inst == nil {
		h.Log.Info("card instance not found", "instance_id", instanceID)
		c.JSON(http.StatusNotFound, gin.H{"message": "Card not found"})
		return
	}

	if err := h.Repo.Delete(ctx, userID, instanceID); err != nil {
		h.Log.Error("delete card instance failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error deleting card"})
		return
	}

	h.Events.Publish(synchub.Event{
		Type:           synchub.EventCollectionRemove,
		UserID:         userID,
		CardInstanceID: instanceID,
		OracleID:       inst.OracleID,
		PrintID:        inst.PrintID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Card has been deleted"})
}

func (h *Handler) byOracle(c *gin.Context) {
	items, err := h.Repo.ByOracle(c.Request.Context(), auth.UserID(c), c.Param("oracle_id"))
	if err != nil {
		h.Log.Error("fetch instances by oracle failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching cards"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) search(c *gin.Context) {
	q := SearchQuery{
		UserID: auth.UserID(c),
		Q:      c.Query("q"),
		Limit:  DefaultLimit,
	}
	if s := strings.TrimSpace(c.Query("limit")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "'limit' must be a positive integer"})
			return
		}
		q.Limit = n
	}
	pk, sk := c.Query("pk-last-evaluated"), c.Query("sk-last-evaluated")
	if pk != "" && sk != "" {
		q.After = &Cursor{PK: pk, SK: sk}
	}

	page, err := h.Repo.Search(c.Request.Context(), q)
	if err != nil {
		h.Log.Error("collection search failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error searching collection"})
		return
	}

	var nextPK, nextSK *string
	if page.Next != nil {
		nextPK, nextSK = &page.Next.PK, &page.Next.SK
	}
	c.JSON(http.StatusOK, gin.H{
		"Items":             page.Items,
		"pk-last-evaluated": nextPK,
		"sk-last-evaluated": nextSK,
	})
}
