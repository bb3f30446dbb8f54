// Package sqlite provides a local credential store for single-binary
// deployments. It intentionally opens its own database handle — even when
// pointed at a separate file on the same disk as the relational store — so
// the no-cross-store-transaction property of the provisioning saga holds in
// development exactly as it does against a hosted identity provider.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/keystackhq/keystack/internal/members/identity"
)

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    banned        INTEGER NOT NULL DEFAULT 0,
    created_at    TIMESTAMP NOT NULL,
    updated_at    TIMESTAMP NOT NULL
);`

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error                   { return s.db.Close() }
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Create(ctx context.Context, c identity.Credential) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (id, email, password_hash, banned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, strings.ToLower(c.Email), c.PasswordHash, c.Banned, now, now,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return identity.ErrEmailTaken
	}
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (identity.Credential, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, banned, created_at, updated_at
		FROM credentials WHERE id = ?`, id))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (identity.Credential, error) {
	return s.scanOne(s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, banned, created_at, updated_at
		FROM credentials WHERE email = ?`, strings.ToLower(email)))
}

func (s *Store) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE credentials SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now().UTC(), id)
	return err
}

func (s *Store) UpdateEmail(ctx context.Context, id string, email string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE credentials SET email = ?, updated_at = ? WHERE id = ?`,
		strings.ToLower(email), time.Now().UTC(), id)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return identity.ErrEmailTaken
	}
	return err
}

func (s *Store) SetBanned(ctx context.Context, id string, banned bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE credentials SET banned = ?, updated_at = ? WHERE id = ?`,
		banned, time.Now().UTC(), id)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = ?`, id)
	return err
}

func (s *Store) scanOne(row *sql.Row) (identity.Credential, error) {
	var c identity.Credential
	err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.Banned, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return identity.Credential{}, identity.ErrNotFound
	}
	if err != nil {
		return identity.Credential{}, err
	}
	return c, nil
}
