package sqlite

import (
	"context"
	"database/sql"

	"github.com/keystackhq/keystack/internal/members/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // caller will commit/rollback; outer DB stays open

// Ping is a no-op for transactions; the connection is already established.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx starts

func (t *txStore) Invitations() store.Invitations { return &invitationsRepo{db: t.tx} }
func (t *txStore) Profiles() store.Profiles       { return &profilesRepo{db: t.tx} }
func (t *txStore) Teams() store.Teams             { return &teamsRepo{db: t.tx} }
func (t *txStore) Memberships() store.Memberships { return &membershipsRepo{db: t.tx} }
func (t *txStore) RoleGrants() store.RoleGrants   { return &roleGrantsRepo{db: t.tx} }
func (t *txStore) Audit() store.Audit             { return &auditRepo{db: t.tx} }
func (t *txStore) Offices() store.Offices         { return &officesRepo{db: t.tx} }
