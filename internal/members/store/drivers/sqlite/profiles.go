package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
)

type profilesRepo struct {
	db dbtx
}

const profileColumns = `id, email, original_email, name, phone, status, office_id,
	primary_team_id, password_set, onboarding_complete, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (domain.Profile, error) {
	var (
		p             domain.Profile
		originalEmail sql.NullString
		officeID      sql.NullString
		primaryTeamID sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.Email, &originalEmail, &p.Name, &p.Phone, &p.Status, &officeID,
		&primaryTeamID, &p.PasswordSet, &p.OnboardingComplete, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Profile{}, err
	}
	p.OriginalEmail = mapNullString(originalEmail)
	p.OfficeID = mapNullString(officeID)
	p.PrimaryTeamID = mapNullStringPtr(primaryTeamID)
	return p, nil
}

func (r *profilesRepo) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) GetByEmail(ctx context.Context, email string) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = ?`, email)
	p, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) Upsert(ctx context.Context, p domain.Profile) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, original_email, name, phone, status, office_id,
			primary_team_id, password_set, onboarding_complete, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			phone = excluded.phone,
			status = excluded.status,
			office_id = excluded.office_id,
			password_set = excluded.password_set,
			updated_at = excluded.updated_at`,
		p.ID, p.Email, mapStringNull(p.OriginalEmail), p.Name, p.Phone, p.Status,
		mapStringNull(p.OfficeID), mapOptionalString(p.PrimaryTeamID),
		p.PasswordSet, p.OnboardingComplete, now, now,
	)
	return mapConstraint(err)
}

func (r *profilesRepo) Archive(ctx context.Context, id string, sentinelEmail string) error {
	// original_email keeps the real address; COALESCE protects it if the
	// row was somehow archived twice.
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET original_email = COALESCE(original_email, email),
		    email = ?,
		    status = 'archived',
		    updated_at = ?
		WHERE id = ?`, sentinelEmail, time.Now().UTC(), id)
	return err
}

func (r *profilesRepo) RestoreEmail(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET email = COALESCE(original_email, email),
		    original_email = NULL,
		    updated_at = ?
		WHERE id = ?`, time.Now().UTC(), id)
	return mapConstraint(err)
}

func (r *profilesRepo) SetStatus(ctx context.Context, id string, status domain.ProfileStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	return err
}

func (r *profilesRepo) SetOffice(ctx context.Context, id string, officeID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET office_id = ?, updated_at = ? WHERE id = ?`,
		officeID, time.Now().UTC(), id)
	return err
}

func (r *profilesRepo) SetPrimaryTeam(ctx context.Context, id string, teamID *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET primary_team_id = ?, updated_at = ? WHERE id = ?`,
		mapOptionalString(teamID), time.Now().UTC(), id)
	return err
}

func (r *profilesRepo) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profilesRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	return err
}
