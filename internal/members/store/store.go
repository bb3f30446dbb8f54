package store

import (
	"context"
	"errors"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for the relational records.
// Concrete drivers (sqlite, postgres) implement this. It exposes
// sub-repositories to keep concerns tidy and testable.
//
// Note: the identity/credential store is deliberately NOT part of this
// interface. Credentials live in a separate subsystem (see the identity
// package) and no transaction ever spans both sides; that gap is the whole
// reason the provisioning flow is a saga with a verification step.
type Store interface {
	Invitations() Invitations
	Profiles() Profiles
	Teams() Teams
	Memberships() Memberships
	RoleGrants() RoleGrants
	Audit() Audit
	Offices() Offices

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invitations interface {
	// Create inserts a new invitation. Returns ErrAlreadyExists when a
	// pending invitation for the same email already exists; the partial
	// unique index makes the check-then-insert race-safe.
	Create(ctx context.Context, inv domain.Invitation) error

	GetByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetByTokenHash looks an invitation up by its token fingerprint,
	// regardless of status.
	GetByTokenHash(ctx context.Context, hash string) (domain.Invitation, error)

	// GetPendingByEmail returns the pending invitation for an email, if any.
	GetPendingByEmail(ctx context.Context, email string) (domain.Invitation, error)

	// MarkAccepted flips status to accepted and records the timestamp.
	MarkAccepted(ctx context.Context, id string, at time.Time) error

	// MarkRevoked flips status to revoked.
	MarkRevoked(ctx context.Context, id string) error

	// MarkExpired flips status to expired.
	MarkExpired(ctx context.Context, id string) error

	// Renew resets an invitation for resending: fresh token hash, new
	// expiry, status back to pending.
	Renew(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error

	// ListDuePending returns pending invitations whose expiry has passed.
	ListDuePending(ctx context.Context, now time.Time) ([]domain.Invitation, error)

	// ListPending returns all pending invitations (for integrity sweeps).
	ListPending(ctx context.Context) ([]domain.Invitation, error)

	// Delete hard-removes an invitation. Only cleanup tooling calls this.
	Delete(ctx context.Context, id string) error
}

type Profiles interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)

	// GetByEmail matches the live email column, lower-cased. Archived rows
	// never match because their email holds the archival sentinel.
	GetByEmail(ctx context.Context, email string) (domain.Profile, error)

	// Upsert inserts the profile or, when the id already exists, refreshes
	// the mutable fields. This is the idempotent re-entry point for the
	// provisioning saga.
	Upsert(ctx context.Context, p domain.Profile) error

	// Archive frees the profile's email for reuse: status becomes archived,
	// the real address moves to original_email, and the email column gets
	// the sentinel.
	Archive(ctx context.Context, id string, sentinelEmail string) error

	// RestoreEmail reverses Archive, moving original_email back into email.
	RestoreEmail(ctx context.Context, id string) error

	SetStatus(ctx context.Context, id string, status domain.ProfileStatus) error
	SetOffice(ctx context.Context, id string, officeID string) error

	// SetPrimaryTeam sets (or clears, with nil) the primary team pointer.
	SetPrimaryTeam(ctx context.Context, id string, teamID *string) error

	// List returns every profile. Reconciliation sweeps use this.
	List(ctx context.Context) ([]domain.Profile, error)

	// Delete hard-removes a profile row. Only duplicate-account merge calls this.
	Delete(ctx context.Context, id string) error
}

type Teams interface {
	Create(ctx context.Context, t domain.Team) error
	GetByID(ctx context.Context, id string) (domain.Team, error)

	// GetPersonal returns the personal team for (owner, office), if created.
	GetPersonal(ctx context.Context, ownerID, officeID string) (domain.Team, error)

	// GetByName returns a team by display name within an office. Cross-office
	// repair uses it to deduplicate duplicated teams.
	GetByName(ctx context.Context, officeID, name string) (domain.Team, error)
}

type Memberships interface {
	Create(ctx context.Context, m domain.TeamMembership) error

	// Get re-reads a membership row. Provisioning calls this immediately
	// after Create as the read-back verification.
	Get(ctx context.Context, userID, teamID string) (domain.TeamMembership, error)

	ListByUser(ctx context.Context, userID string) ([]domain.TeamMembership, error)
	Delete(ctx context.Context, userID, teamID string) error

	// Move repoints a membership at a different team, keeping access level.
	Move(ctx context.Context, userID, fromTeamID, toTeamID string) error

	// TransferAll reassigns every membership row from one user to another.
	// Merge only calls this when the target user has zero rows.
	TransferAll(ctx context.Context, fromUserID, toUserID string) error

	// DeleteByUser removes all membership rows for a user.
	DeleteByUser(ctx context.Context, userID string) error
}

type RoleGrants interface {
	Create(ctx context.Context, g domain.RoleGrant) error
	ListActiveByUser(ctx context.Context, userID string) ([]domain.RoleGrant, error)

	// CountActiveByRole counts active grants of a role across all users,
	// optionally excluding one user. The last-platform-admin guard uses it.
	CountActiveByRole(ctx context.Context, role domain.Role, excludeUserID string) (int, error)

	// Revoke sets revoked_at on a grant.
	Revoke(ctx context.Context, id string, at time.Time) error

	// TransferAll reassigns every grant row from one user to another.
	TransferAll(ctx context.Context, fromUserID, toUserID string) error

	// DeleteByUser removes all grant rows for a user.
	DeleteByUser(ctx context.Context, userID string) error
}

type Audit interface {
	// Append writes an audit entry. There is deliberately no update or
	// delete; the log is immutable.
	Append(ctx context.Context, e domain.AuditEntry) error

	// ListByTarget returns entries for a target, newest first.
	ListByTarget(ctx context.Context, targetID string) ([]domain.AuditEntry, error)
}

type Offices interface {
	Create(ctx context.Context, o domain.Office) error
	GetByID(ctx context.Context, id string) (domain.Office, error)
}
