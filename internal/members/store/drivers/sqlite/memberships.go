package sqlite

import (
	"context"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
)

type membershipsRepo struct {
	db dbtx
}

func (r *membershipsRepo) Create(ctx context.Context, m domain.TeamMembership) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO team_memberships (user_id, team_id, access_level, created_at)
		VALUES (?, ?, ?, ?)`,
		m.UserID, m.TeamID, m.AccessLevel, time.Now().UTC(),
	)
	return mapConstraint(err)
}

func (r *membershipsRepo) Get(ctx context.Context, userID, teamID string) (domain.TeamMembership, error) {
	var m domain.TeamMembership
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, team_id, access_level, created_at
		FROM team_memberships WHERE user_id = ? AND team_id = ?`, userID, teamID).
		Scan(&m.UserID, &m.TeamID, &m.AccessLevel, &m.CreatedAt)
	if err != nil {
		return domain.TeamMembership{}, mapNotFound(err)
	}
	return m, nil
}

func (r *membershipsRepo) ListByUser(ctx context.Context, userID string) ([]domain.TeamMembership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, team_id, access_level, created_at
		FROM team_memberships WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TeamMembership
	for rows.Next() {
		var m domain.TeamMembership
		if err := rows.Scan(&m.UserID, &m.TeamID, &m.AccessLevel, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *membershipsRepo) Delete(ctx context.Context, userID, teamID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM team_memberships WHERE user_id = ? AND team_id = ?`, userID, teamID)
	return err
}

func (r *membershipsRepo) Move(ctx context.Context, userID, fromTeamID, toTeamID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE team_memberships SET team_id = ?
		WHERE user_id = ? AND team_id = ?`, toTeamID, userID, fromTeamID)
	return mapConstraint(err)
}

func (r *membershipsRepo) TransferAll(ctx context.Context, fromUserID, toUserID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE team_memberships SET user_id = ? WHERE user_id = ?`, toUserID, fromUserID)
	return mapConstraint(err)
}

func (r *membershipsRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM team_memberships WHERE user_id = ?`, userID)
	return err
}
