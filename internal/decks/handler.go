package decks

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cardvault/internal/auth"
	synchub "cardvault/internal/sync"
	"cardvault/pkg/logger"
	"cardvault/pkg/models"
)

// Catalog resolves printings from the cards table.
type Catalog interface {
	Get(ctx context.Context, oracleID, printID string) (*models.Card, error)
	Latest(ctx context.Context, oracleID string) (*models.Card, error)
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
	rg.POST("", h.createDeck)
	rg.GET("", h.listDecks)
	rg.GET("/:deck_id", h.getDeck)

	rg.GET("/:deck_id/cards", h.listCards)
	rg.POST("/:deck_id/cards", h.addCard)
	rg.GET("/:deck_id/cards/:deck_card_id", h.getCard)
	rg.PATCH("/:deck_id/cards/:deck_card_id", h.editCard)
	rg.DELETE("/:deck_id/cards/:deck_card_id", h.removeCard)
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.Log.Error(msg, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
}

type createDeckReq struct {
	Name *string `json:"name"`
}

func (h *Handler) createDeck(c *gin.Context) {
	var req createDeckReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing 'name'"})
		return
	}

	userID := auth.UserID(c)
	deckID := h.NewID()
	deck := models.Deck{
		PK:       models.DeckPK(userID),
		SK:       models.DeckSK(deckID),
		DataType: models.DataTypeDeck,
		UserID:   userID,
		DeckID:   deckID,
		DeckName: *req.Name,
	}
	if err := h.Repo.CreateDeck(c.Request.Context(), deck); err != nil {
		h.serverError(c, "create deck failed", err)
		return
	}

	h.Log.Info("created deck", "deck_id", deckID)
	h.Events.Publish(synchub.Event{Type: synchub.EventDeckCreate, UserID: userID, DeckID: deckID})
	c.JSON(http.StatusCreated, deck)
}

func (h *Handler) listDecks(c *gin.Context) {
	decks, err := h.Repo.ListDecks(c.Request.Context(), auth.UserID(c))
	if err != nil {
		h.serverError(c, "list decks failed", err)
		return
	}
	c.JSON(http.StatusOK, decks)
}

func (h *Handler) getDeck(c *gin.Context) {
	deck, err := h.Repo.GetDeck(c.Request.Context(), auth.UserID(c), c.Param("deck_id"))
	if err != nil {
		h.serverError(c, "get deck failed", err)
		return
	}
	if deck == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Deck not found"})
		return
	}
	c.JSON(http.StatusOK, deck)
}

func (h *Handler) listCards(c *gin.Context) {
	cards, err := h.Repo.ListCards(c.Request.Context(), auth.UserID(c), c.Param("deck_id"))
	if err != nil {
		h.serverError(c, "list deck cards failed", err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *Handler) getCard(c *gin.Context) {
	card, err := h.Repo.GetCard(c.Request.Context(), auth.UserID(c), c.Param("deck_id"), c.Param("deck_card_id"))
	if err != nil {
		h.serverError(c, "get deck card failed", err)
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Deck card not found"})
		return
	}
	c.JSON(http.StatusOK, card)
}

type deckCardReq struct {
	CardOracle     *string `json:"cardOracle"`
	CardLocation   *string `json:"cardLocation"`
	CardPrintID    *string `json:"cardPrintId"`
	CardInstanceID *string `json:"cardInstanceId"`
}

// validate returns the client-facing message for a bad body, or "".
func (r deckCardReq) validate(needOracle bool) string {
	if needOracle && r.CardOracle == nil {
		return "Missing 'cardOracle'"
	}
	if r.CardInstanceID != nil && r.CardPrintID == nil {
		return "'cardPrintId' should be set when 'cardInstanceId' is set"
	}
	if r.CardLocation == nil {
		return "Missing 'cardLocation'"
	}
	if !models.IsDeckLocation(*r.CardLocation) {
		return fmt.Sprintf("Invalid deck location: '%s'. Expected one of: '%s'",
			*r.CardLocation, strings.Join(models.DeckLocations, ", "))
	}
	return ""
}

func bindDeckCard(c *gin.Context, needOracle bool) (deckCardReq, bool) {
	var req deckCardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing body in request"})
		return req, false
	}
	if msg := req.validate(needOracle); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return req, false
	}
	return req, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *Handler) addCard(c *gin.Context) {
	req, ok := bindDeckCard(c, true)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	oracleID := *req.CardOracle

	var (
		card *models.Card
		err  error
	)
	if req.CardPrintID != nil {
		card, err = h.Cards.Get(ctx, oracleID, *req.CardPrintID)
	} else {
		card, err = h.Cards.Latest(ctx, oracleID)
	}
	if err != nil {
		h.serverError(c, "fetch card for deck failed", err)
		return
	}
	if card == nil {
		msg := fmt.Sprintf("Card with oracle with id '%s' was not found", oracleID)
		if req.CardInstanceID != nil {
			msg = fmt.Sprintf("Card with oracle with id '%s' and with card print id '%s' was not found", oracleID, *req.CardPrintID)
		}
		h.Log.Info("deck card lookup missed", "oracle_id", oracleID)
		c.JSON(http.StatusNotFound, gin.H{"message": msg})
		return
	}

	userID := auth.UserID(c)
	deckID := c.Param("deck_id")
	deckCardID := h.NewID()
	item := models.DeckCard{
		PK:             models.DeckCardPK(userID, deckID),
		SK:             models.DeckCardSK(deckCardID),
		DataType:       models.DataTypeDeckCard,
		UserID:         userID,
		DeckID:         deckID,
		DeckCardID:     deckCardID,
		CardLocation:   *req.CardLocation,
		CardInstanceID: deref(req.CardInstanceID),
		Printing:       card.Printing,
		CardFaces:      models.DeckFaces(card.CardFaces),
	}
	if err := h.Repo.PutCard(ctx, item); err != nil {
		h.serverError(c, "save deck card failed", err)
		return
	}

	h.Events.Publish(synchub.Event{
		Type:           synchub.EventDeckCardAdd,
		UserID:         userID,
		DeckID:         deckID,
		DeckCardID:     deckCardID,
		OracleID:       card.OracleID,
		PrintID:        card.PrintID,
		CardInstanceID: item.CardInstanceID,
		CardLocation:   item.CardLocation,
	})
	c.JSON(http.StatusCreated, gin.H{"deck_card_id": deckCardID})
}

// editCard moves a deck card and, when the printing changes, copies the new
// printing onto it. Without cardPrintId the collection link is dropped.
func (h *Handler) editCard(c *gin.Context) {
	req, ok := bindDeckCard(c, false)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userID := auth.UserID(c)
	deckID, deckCardID := c.Param("deck_id"), c.Param("deck_card_id")

	stored, err := h.Repo.SetLocation(ctx, userID, deckID, deckCardID, *req.CardLocation)
	if err != nil {
		h.serverError(c, "update deck card location failed", err)
		return
	}
	if stored == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Deck card not found"})
		return
	}

	switch {
	case req.CardPrintID == nil:
		if stored.CardInstanceID != "" {
			if _, err := h.Repo.Unlink(ctx, userID, deckID, deckCardID); err != nil {
				h.serverError(c, "unlink deck card failed", err)
				return
			}
		}
	case *req.CardPrintID != stored.PrintID:
		card, err := h.Cards.Get(ctx, stored.OracleID, *req.CardPrintID)
		if err != nil {
			h.serverError(c, "fetch card for deck failed", err)
			return
		}
		if card == nil {
			msg := fmt.Sprintf("No card with oracle '%s' and print '%s' found", stored.OracleID, *req.CardPrintID)
			h.Log.Info("deck card reprint missed", "oracle_id", stored.OracleID, "print_id", *req.CardPrintID)
			c.JSON(http.StatusBadRequest, gin.H{"message": msg})
			return
		}
		if _, err := h.Repo.Reprint(ctx, userID, deckID, deckCardID, *card, deref(req.CardInstanceID)); err != nil {
			h.serverError(c, "reprint deck card failed", err)
			return
		}
	}

	h.Events.Publish(synchub.Event{
		Type:           synchub.EventDeckCardUpdate,
		UserID:         userID,
		DeckID:         deckID,
		DeckCardID:     deckCardID,
		PrintID:        deref(req.CardPrintID),
		CardInstanceID: deref(req.CardInstanceID),
		CardLocation:   *req.CardLocation,
	})
	c.Status(http.StatusNoContent)
}

func (h *Handler) removeCard(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)
	deckID, deckCardID := c.Param("deck_id"), c.Param("deck_card_id")

	card, err := h.Repo.GetCard(ctx, userID, deckID, deckCardID)
	if err != nil {
		h.serverError(c, "get deck card failed", err)
		return
	}
	if card == nil {
		h.Log.Info("deck card not found", "deck_card_id", deckCardID)
		c.JSON(http.StatusNotFound, gin.H{"message": "Deck card not found"})
		return
	}

	if err := h.Repo.DeleteCard(ctx, userID, deckID, deckCardID); err != nil {
		h.serverError(c, "remove deck card failed", err)
		return
	}

	h.Events.Publish(synchub.Event{
		Type:       synchub.EventDeckCardRemove,
		UserID:     userID,
		DeckID:     deckID,
		DeckCardID: deckCardID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Card has been removed from deck"})
}
