package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cardvault/pkg/logger"
)

// Directory is what the handler needs from the user store.
type Directory interface {
	Login(ctx context.Context, email, password string) (string, error)
	Exists(ctx context.Context, email string) (bool, error)
	SignUp(ctx context.Context, email, password string) error
}

type Handler struct {
	Repo Directory
	Log  *logger.Logger
}

func NewHandler(repo Directory, log *logger.Logger) *Handler {
	return &Handler{Repo: repo, Log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func bindCredentials(c *gin.Context) (credentialsReq, bool) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return req, false
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return req, false
	}
	return req, true
}

func (h *Handler) register(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	exists, err := h.Repo.Exists(ctx, req.Email)
	if err != nil {
		h.Log.Error("register lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong."})
		return
	}
	if exists {
		h.Log.Info("email address is already in use")
		c.JSON(http.StatusConflict, gin.H{"error": "Email address is already in use."})
		return
	}

	if err := h.Repo.SignUp(ctx, req.Email, req.Password); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters long."})
			return
		}
		h.Log.Error("sign up failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong."})
		return
	}

	c.Status(http.StatusCreated)
}

func (h *Handler) login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	token, err := h.Repo.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"token": token})
	case errors.Is(err, ErrBadCredentials):
		c.JSON(http.StatusForbidden, gin.H{"error": "Username or password is incorrect."})
	case errors.Is(err, ErrNotConfirmed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not confirmed yet. Please check your email."})
	default:
		h.Log.Error("login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong."})
	}
}
