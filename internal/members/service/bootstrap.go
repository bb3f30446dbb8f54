package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/identity"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/pkg/cryptox"
	"github.com/keystackhq/keystack/pkg/idx"
	"github.com/keystackhq/keystack/pkg/jwtx"
	"github.com/keystackhq/keystack/pkg/slogx"
)

// BootstrapService provisions the first office and platform admin on an
// empty system. Invitations need an inviter; this is where the first one
// comes from. Guarded by a deploy-time shared token and disabled forever
// after the first profile exists.
type BootstrapService struct {
	Store       store.Store
	Identity    identity.Store
	Audit       *AuditService
	Memberships *MembershipService
	Roles       *RoleService
	Signer      *jwtx.Signer

	// Token is the shared secret from deployment config. Empty disables
	// bootstrap entirely.
	Token string
}

type BootstrapParams struct {
	Token      string
	OfficeName string
	Email      string
	Name       string
	Password   string
}

type BootstrapResult struct {
	UserID      string
	OfficeID    string
	TeamID      string
	AccessToken string
}

// Bootstrap creates the initial office, platform admin account, personal
// team and role grant, then returns a signed bearer token so the admin can
// start inviting immediately.
func (s *BootstrapService) Bootstrap(ctx context.Context, params BootstrapParams) (BootstrapResult, error) {
	if s.Token == "" || subtle.ConstantTimeCompare([]byte(s.Token), []byte(params.Token)) != 1 {
		return BootstrapResult{}, ErrBootstrapUnavailable
	}

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if !emailPattern.MatchString(email) {
		return BootstrapResult{}, ErrInvalidEmail
	}

	existing, err := s.Store.Profiles().List(ctx)
	if err != nil {
		return BootstrapResult{}, err
	}
	if len(existing) > 0 {
		return BootstrapResult{}, ErrAlreadyBootstrapped
	}

	office := domain.Office{
		ID:   idx.New().String(),
		Name: params.OfficeName,
	}
	if err := s.Store.Offices().Create(ctx, office); err != nil {
		return BootstrapResult{}, err
	}

	hash, err := cryptox.HashPassword(params.Password)
	if err != nil {
		return BootstrapResult{}, err
	}
	userID := idx.New().String()
	if err := s.Identity.Create(ctx, identity.Credential{
		ID:           userID,
		Email:        email,
		PasswordHash: hash,
	}); err != nil {
		if err == identity.ErrEmailTaken {
			return BootstrapResult{}, ErrAlreadyBootstrapped
		}
		return BootstrapResult{}, err
	}

	if err := s.Store.Profiles().Upsert(ctx, domain.Profile{
		ID:          userID,
		Email:       email,
		Name:        params.Name,
		Status:      domain.ProfileActive,
		OfficeID:    office.ID,
		PasswordSet: true,
	}); err != nil {
		return BootstrapResult{}, err
	}

	assign, err := s.Memberships.Assign(ctx, userID, userID, domain.RolePlatformAdmin, nil, office.ID)
	if err != nil {
		return BootstrapResult{}, err
	}
	if err := s.Roles.Grant(ctx, userID, userID, domain.RolePlatformAdmin); err != nil {
		return BootstrapResult{}, err
	}

	s.Audit.Record(ctx, userID, domain.AuditProfileProvisioned, userID, map[string]any{
		"bootstrap": true,
		"office_id": office.ID,
	})

	token, err := s.Signer.Sign(userID, string(domain.RolePlatformAdmin), office.ID)
	if err != nil {
		return BootstrapResult{}, err
	}

	slogx.FromContext(ctx).Info("system bootstrapped",
		slog.String("user_id", userID),
		slog.String("office_id", office.ID),
	)
	return BootstrapResult{
		UserID:      userID,
		OfficeID:    office.ID,
		TeamID:      assign.TeamID,
		AccessToken: token,
	}, nil
}
