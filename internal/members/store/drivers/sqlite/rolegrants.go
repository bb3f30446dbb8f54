package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
)

type roleGrantsRepo struct {
	db dbtx
}

func scanRoleGrant(row interface{ Scan(...any) error }) (domain.RoleGrant, error) {
	var (
		g         domain.RoleGrant
		revokedAt sql.NullTime
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Role, &g.GrantedBy, &revokedAt, &g.CreatedAt)
	if err != nil {
		return domain.RoleGrant{}, err
	}
	g.RevokedAt = mapNullTimePtr(revokedAt)
	return g, nil
}

func (r *roleGrantsRepo) Create(ctx context.Context, g domain.RoleGrant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO role_grants (id, user_id, role, granted_by, revoked_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Role, g.GrantedBy, mapOptionalTime(g.RevokedAt), time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *roleGrantsRepo) ListActiveByUser(ctx context.Context, userID string) ([]domain.RoleGrant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, role, granted_by, revoked_at, created_at
		FROM role_grants WHERE user_id = ? AND revoked_at IS NULL
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoleGrant
	for rows.Next() {
		g, err := scanRoleGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *roleGrantsRepo) CountActiveByRole(ctx context.Context, role domain.Role, excludeUserID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM role_grants
		WHERE role = ? AND revoked_at IS NULL AND user_id != ?`,
		role, excludeUserID).Scan(&count)
	return count, err
}

func (r *roleGrantsRepo) Revoke(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE role_grants SET revoked_at = ? WHERE id = ?`, at.UTC(), id)
	return err
}

func (r *roleGrantsRepo) TransferAll(ctx context.Context, fromUserID, toUserID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE role_grants SET user_id = ? WHERE user_id = ?`, toUserID, fromUserID)
	return err
}

func (r *roleGrantsRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM role_grants WHERE user_id = ?`, userID)
	return err
}
