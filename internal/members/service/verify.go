package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/pkg/slogx"
)

// VerifyService is the single authority on whether a provisioned account is
// complete. Nothing else in the codebase declares an account "done"; the
// provisioning flow and the repair tooling both finish by calling Verify.
type VerifyService struct {
	Store store.Store
	Audit *AuditService
}

// Verify re-reads the profile and checks the completeness invariant: the row
// exists, is active, and carries both an office and a primary team. An
// incomplete profile gets a critical audit entry and comes back as
// *IncompleteProfileError carrying the user id.
func (s *VerifyService) Verify(ctx context.Context, actorID, userID string) error {
	prof, err := s.Store.Profiles().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.recordIncomplete(ctx, actorID, userID, map[string]any{"missing": "profile"})
			return &IncompleteProfileError{UserID: userID}
		}
		return err
	}

	missing := make([]string, 0, 2)
	if prof.OfficeID == "" {
		missing = append(missing, "office_id")
	}
	if prof.PrimaryTeamID == nil || *prof.PrimaryTeamID == "" {
		missing = append(missing, "primary_team_id")
	}
	if len(missing) == 0 {
		return nil
	}

	s.recordIncomplete(ctx, actorID, userID, map[string]any{"missing": missing})
	return &IncompleteProfileError{UserID: userID}
}

func (s *VerifyService) recordIncomplete(ctx context.Context, actorID, userID string, details map[string]any) {
	details["critical"] = true
	s.Audit.Record(ctx, actorID, domain.AuditProfileIncomplete, userID, details)
	slogx.FromContext(ctx).Error("provisioned profile failed verification",
		slog.String("user_id", userID),
		slog.Any("details", details),
	)
}
