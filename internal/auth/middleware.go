package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxClaimsKey = "auth_claims"

// Middleware reads the bearer token's claims and stores them in the context.
// The signature is not verified here, see ParseUnverified.
func Middleware() gin.HandlerFunc {
	return authenticate(false)
}

// WSMiddleware is Middleware that also accepts the token in the access_token
// query parameter. Browsers cannot set headers on a websocket handshake, so
// mount it on the upgrade route only.
func WSMiddleware() gin.HandlerFunc {
	return authenticate(true)
}

func authenticate(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := strings.TrimSpace(c.GetHeader("Authorization"))
		if h == "" && allowQuery {
			h = strings.TrimSpace(c.Query("access_token"))
		}
		if h == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"Message": "JWT token not provided"})
			return
		}

		raw := h
		if len(h) > len("bearer ") && strings.EqualFold(h[:len("bearer ")], "bearer ") {
			raw = h[len("bearer "):]
		}
		claims, err := ParseUnverified(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"Message": "invalid token"})
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

func MustGetClaims(c *gin.Context) *Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// UserID returns the subject of the request's token, or "" outside Middleware.
func UserID(c *gin.Context) string {
	if claims := MustGetClaims(c); claims != nil {
		return claims.UserID()
	}
	return ""
}
