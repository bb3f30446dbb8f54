package sqlite

import (
	"context"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
)

type officesRepo struct {
	db dbtx
}

func (r *officesRepo) Create(ctx context.Context, o domain.Office) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO offices (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)`, o.ID, o.Name, now, now)
	return mapConstraint(err)
}

func (r *officesRepo) GetByID(ctx context.Context, id string) (domain.Office, error) {
	var o domain.Office
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at FROM offices WHERE id = ?`, id).
		Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Office{}, mapNotFound(err)
	}
	return o, nil
}
