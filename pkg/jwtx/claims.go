package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is how long minted bearer tokens stay valid.
const DefaultAccessTokenTTL = 1 * time.Hour

var (
	ErrTokenExpired = errors.New("jwtx: token expired")
	ErrTokenInvalid = errors.New("jwtx: token invalid")
)

// Claims is the bearer token payload. Subject is the member's user id; Role
// and OfficeID mirror the member's current platform role and home office so
// handlers can authorize without a store round trip.
type Claims struct {
	jwt.RegisteredClaims

	Role     string `json:"role"`
	OfficeID string `json:"office_id,omitempty"`
}

// ValidateExpiry checks the exp claim against the current time.
func (c Claims) ValidateExpiry() error {
	if c.ExpiresAt == nil || c.ExpiresAt.Before(time.Now()) {
		return ErrTokenExpired
	}
	return nil
}
