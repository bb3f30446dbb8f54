// Package identity is the adapter boundary for the authentication credential
// store. Credentials live in a subsystem separate from the relational member
// records: no transaction spans both, and the two can drift when a
// provisioning saga is interrupted. Everything in this package treats that
// drift as a normal condition, not a bug.
package identity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("identity: credential not found")
	ErrEmailTaken = errors.New("identity: email already registered")
)

// Credential is an authentication record. Its ID is the member's user id
// everywhere else in the system; the profile row shares it 1:1.
type Credential struct {
	ID           string
	Email        string // unique, stored lower-cased
	PasswordHash string
	Banned       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store is the credential subsystem surface the provisioning and
// reconciliation flows consume. Implementations must treat email lookups as
// case-insensitive (normalize to lower case before storage and query).
type Store interface {
	// Create registers a new credential. Returns ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, c Credential) error

	GetByID(ctx context.Context, id string) (Credential, error)
	GetByEmail(ctx context.Context, email string) (Credential, error)

	// UpdatePassword replaces the password hash.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	// UpdateEmail changes the registered address (used when restoring an
	// archived account's original email).
	UpdateEmail(ctx context.Context, id string, email string) error

	// SetBanned bans or unbans the credential.
	SetBanned(ctx context.Context, id string, banned bool) error

	// Delete permanently removes the credential. Only duplicate-account
	// merge calls this.
	Delete(ctx context.Context, id string) error

	Close() error
	Ping(ctx context.Context) error
}
