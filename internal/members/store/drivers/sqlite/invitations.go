package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
)

type invitationsRepo struct {
	db dbtx
}

const invitationColumns = `id, token_hash, email, role, team_id, office_id, agency_id,
	inviter_id, status, expires_at, accepted_at, created_at, updated_at`

func scanInvitation(row interface{ Scan(...any) error }) (domain.Invitation, error) {
	var (
		inv        domain.Invitation
		teamID     sql.NullString
		officeID   sql.NullString
		agencyID   sql.NullString
		acceptedAt sql.NullTime
	)
	err := row.Scan(
		&inv.ID, &inv.TokenHash, &inv.Email, &inv.Role, &teamID, &officeID, &agencyID,
		&inv.InviterID, &inv.Status, &inv.ExpiresAt, &acceptedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invitation{}, err
	}
	inv.TeamID = mapNullStringPtr(teamID)
	inv.OfficeID = mapNullString(officeID)
	inv.LegacyAgencyID = mapNullString(agencyID)
	inv.AcceptedAt = mapNullTimePtr(acceptedAt)
	return inv, nil
}

func (r *invitationsRepo) Create(ctx context.Context, inv domain.Invitation) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invitations (id, token_hash, email, role, team_id, office_id, agency_id,
			inviter_id, status, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.TokenHash, inv.Email, inv.Role, mapOptionalString(inv.TeamID),
		mapStringNull(inv.OfficeID), mapStringNull(inv.LegacyAgencyID),
		inv.InviterID, inv.Status, inv.ExpiresAt.UTC(), now, now,
	)
	return mapConstraint(err)
}

func (r *invitationsRepo) GetByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetByTokenHash(ctx context.Context, hash string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token_hash = ?`, hash)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) GetPendingByEmail(ctx context.Context, email string) (domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE email = ? AND status = 'pending'`, email)
	inv, err := scanInvitation(row)
	if err != nil {
		return domain.Invitation{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitationsRepo) MarkAccepted(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE invitations SET status = 'accepted', accepted_at = ?, updated_at = ?
		WHERE id = ?`, at.UTC(), time.Now().UTC(), id)
	return err
}

func (r *invitationsRepo) MarkRevoked(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE invitations SET status = 'revoked', updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	return err
}

func (r *invitationsRepo) MarkExpired(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE invitations SET status = 'expired', updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	return err
}

func (r *invitationsRepo) Renew(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error {
	// Renewing can reintroduce a pending row for the email; the partial
	// unique index rejects it if another pending invitation appeared since.
	_, err := r.db.ExecContext(ctx, `
		UPDATE invitations SET status = 'pending', token_hash = ?, expires_at = ?, updated_at = ?
		WHERE id = ?`, tokenHash, expiresAt.UTC(), time.Now().UTC(), id)
	return mapConstraint(err)
}

func (r *invitationsRepo) ListDuePending(ctx context.Context, now time.Time) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE status = 'pending' AND expires_at < ?`, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvitations(rows)
}

func (r *invitationsRepo) ListPending(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE status = 'pending'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvitations(rows)
}

func (r *invitationsRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
	return err
}

func collectInvitations(rows *sql.Rows) ([]domain.Invitation, error) {
	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
