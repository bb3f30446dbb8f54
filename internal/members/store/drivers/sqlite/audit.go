package sqlite

import (
	"context"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
)

type auditRepo struct {
	db dbtx
}

func (r *auditRepo) Append(ctx context.Context, e domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, actor_id, action, target_id, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.ActorID, e.Action, e.TargetID, e.Details, time.Now().UTC(),
	)
	return err
}

func (r *auditRepo) ListByTarget(ctx context.Context, targetID string) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, action, target_id, details, created_at
		FROM audit_log WHERE target_id = ? ORDER BY created_at DESC`, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.TargetID, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
