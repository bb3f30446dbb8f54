package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
)

type teamsRepo struct {
	db dbtx
}

const teamColumns = `id, name, office_id, personal, owner_id, created_at, updated_at`

func scanTeam(row interface{ Scan(...any) error }) (domain.Team, error) {
	var (
		t       domain.Team
		ownerID sql.NullString
	)
	err := row.Scan(&t.ID, &t.Name, &t.OfficeID, &t.Personal, &ownerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Team{}, err
	}
	t.OwnerID = mapNullString(ownerID)
	return t, nil
}

func (r *teamsRepo) Create(ctx context.Context, t domain.Team) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO teams (id, name, office_id, personal, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.OfficeID, t.Personal, mapStringNull(t.OwnerID), now, now,
	)
	return mapConstraint(err)
}

func (r *teamsRepo) GetByID(ctx context.Context, id string) (domain.Team, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = ?`, id)
	t, err := scanTeam(row)
	if err != nil {
		return domain.Team{}, mapNotFound(err)
	}
	return t, nil
}

func (r *teamsRepo) GetPersonal(ctx context.Context, ownerID, officeID string) (domain.Team, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams
		 WHERE owner_id = ? AND office_id = ? AND personal = 1`, ownerID, officeID)
	t, err := scanTeam(row)
	if err != nil {
		return domain.Team{}, mapNotFound(err)
	}
	return t, nil
}

func (r *teamsRepo) GetByName(ctx context.Context, officeID, name string) (domain.Team, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams
		 WHERE office_id = ? AND name = ? ORDER BY created_at LIMIT 1`, officeID, name)
	t, err := scanTeam(row)
	if err != nil {
		return domain.Team{}, mapNotFound(err)
	}
	return t, nil
}
