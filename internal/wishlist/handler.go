package wishlist

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"cardvault/pkg/logger"
)

const detailTypePing = "PingEvent"

type Emitter interface {
	Publish(ctx context.Context, detailType string, detail any) error
}

type Handler struct {
	Events Emitter
	Log    *logger.Logger
}

func NewHandler(events Emitter, log *logger.Logger) *Handler {
	return &Handler{Events: events, Log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", h.ping) // GET /wishlist/ping
}

func (h *Handler) ping(c *gin.Context) {
	err := h.Events.Publish(c.Request.Context(), detailTypePing, gin.H{"message": "Ping!"})
	if err != nil {
		h.Log.Error("publish ping failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Something went wrong."})
		return
	}
	h.Log.Info("ping published")
	c.JSON(http.StatusOK, gin.H{"message": "Pong"})
}
