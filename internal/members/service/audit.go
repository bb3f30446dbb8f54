package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/pkg/idx"
	"github.com/keystackhq/keystack/pkg/slogx"
)

// SystemActorID is the actor recorded for background jobs (sweeps,
// housekeeping) that run without a human caller.
const SystemActorID = "system"

// AuditService appends immutable records of every state-changing step,
// success or failure. Recording is best-effort: a failed append is logged
// loudly but never propagated, because losing an audit row must not undo or
// fail the operation it describes.
type AuditService struct {
	Store store.Store
}

// Record appends one audit entry. details is JSON-encoded; a nil map writes
// an empty details column.
func (s *AuditService) Record(ctx context.Context, actorID, action, targetID string, details map[string]any) {
	log := slogx.FromContext(ctx)

	var encoded string
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			log.Error("audit: failed to encode details",
				slog.String("action", action),
				slog.Any("error", err),
			)
		} else {
			encoded = string(raw)
		}
	}

	entry := domain.AuditEntry{
		ID:       idx.New().String(),
		ActorID:  actorID,
		Action:   action,
		TargetID: targetID,
		Details:  encoded,
	}

	if err := s.Store.Audit().Append(ctx, entry); err != nil {
		log.Error("audit: failed to append entry",
			slog.String("action", action),
			slog.String("target_id", targetID),
			slog.Any("error", err),
		)
	}
}

// outcome folds an error into audit details so both success and failure
// paths produce an entry with the same shape.
func outcome(details map[string]any, err error) map[string]any {
	if details == nil {
		details = map[string]any{}
	}
	if err != nil {
		details["error"] = err.Error()
	}
	return details
}
