package jwtx

import (
	"crypto/ed25519"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/keystackhq/keystack/pkg/idx"
)

// Signer mints EdDSA-signed bearer tokens. The service signs and verifies
// with a single key pair; there is no rotation surface.
type Signer struct {
	key    ed25519.PrivateKey
	issuer string
	ttl    time.Duration
}

func NewSigner(key ed25519.PrivateKey, issuer string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return &Signer{key: key, issuer: issuer, ttl: ttl}
}

// Sign mints a token for the given subject carrying their role and office.
func (s *Signer) Sign(subject, role, officeID string) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        idx.New().String(),
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Role:     role,
		OfficeID: officeID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(s.key)
}
