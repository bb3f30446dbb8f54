package service

import (
	"context"
	"errors"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/pkg/idx"
)

// RoleService records role grants. Grants are append-only: a revocation sets
// a timestamp and a re-grant writes a new row, so the history stays intact.
type RoleService struct {
	Store store.Store
	Audit *AuditService
}

// Grant gives userID an active grant of role, attributed to grantedBy.
// Idempotent: an existing active grant of the same role is left alone.
func (s *RoleService) Grant(ctx context.Context, grantedBy, userID string, role domain.Role) (err error) {
	defer func() {
		action := domain.AuditRoleGranted
		if err != nil {
			action = domain.AuditRoleGrantFailed
		}
		s.Audit.Record(ctx, grantedBy, action, userID, outcome(map[string]any{
			"role": string(role),
		}, err))
	}()

	if !role.Valid() {
		return ErrInvalidRole
	}
	has, err := s.HasActive(ctx, userID, role)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	return s.Store.RoleGrants().Create(ctx, domain.RoleGrant{
		ID:        idx.New().String(),
		UserID:    userID,
		Role:      role,
		GrantedBy: grantedBy,
	})
}

// HasActive reports whether userID holds an active grant of role.
func (s *RoleService) HasActive(ctx context.Context, userID string, role domain.Role) (bool, error) {
	grants, err := s.Store.RoleGrants().ListActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	for _, g := range grants {
		if g.Role == role {
			return true, nil
		}
	}
	return false, nil
}

// Revoke retires a single grant. Revoking a platform_admin grant first
// checks the last-admin guard.
func (s *RoleService) Revoke(ctx context.Context, actorID string, g domain.RoleGrant) (err error) {
	defer func() {
		s.Audit.Record(ctx, actorID, domain.AuditRoleRevoked, g.UserID, outcome(map[string]any{
			"role":     string(g.Role),
			"grant_id": g.ID,
		}, err))
	}()

	if g.Role == domain.RolePlatformAdmin {
		if err := s.EnsurePlatformAdminRemains(ctx, g.UserID); err != nil {
			return err
		}
	}
	return s.Store.RoleGrants().Revoke(ctx, g.ID, time.Now().UTC())
}

// EnsurePlatformAdminRemains fails with ErrLastPlatformAdmin unless at least
// one active platform_admin grant exists on a user other than excludeUserID.
func (s *RoleService) EnsurePlatformAdminRemains(ctx context.Context, excludeUserID string) error {
	n, err := s.Store.RoleGrants().CountActiveByRole(ctx, domain.RolePlatformAdmin, excludeUserID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLastPlatformAdmin
	}
	return nil
}
