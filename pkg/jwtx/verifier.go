package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates raw bearer tokens and returns their claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

type edDSAVerifier struct {
	pub    ed25519.PublicKey
	issuer string
}

func NewVerifier(pub ed25519.PublicKey, issuer string) Verifier {
	return &edDSAVerifier{pub: pub, issuer: issuer}
}

func (v *edDSAVerifier) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.pub, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !token.Valid {
		return Claims{}, ErrTokenInvalid
	}

	return claims, nil
}
