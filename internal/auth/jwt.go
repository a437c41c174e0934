package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSubject = errors.New("token has no subject")

// Claims are the identity-token fields the API relies on.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"cognito:username"`
	jwt.RegisteredClaims
}

// UserID is the token subject; every user-owned key is built from it.
func (c *Claims) UserID() string { return c.Subject }

// ParseUnverified decodes the token claims without checking the signature.
// Tokens reach this service only through the API gateway authorizer, which
// already verified them; this service never holds the signing keys.
func ParseUnverified(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("parse token: empty")
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.Subject == "" {
		return nil, ErrNoSubject
	}
	return claims, nil
}
