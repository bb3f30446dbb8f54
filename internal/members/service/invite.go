package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/pkg/cryptox"
	"github.com/keystackhq/keystack/pkg/idx"
	"github.com/keystackhq/keystack/pkg/slogx"
)

// InvitationTTL is the default lifetime of a freshly minted or resent
// invitation.
const InvitationTTL = 7 * 24 * time.Hour

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role domain.Role
}

// InviteService mints, validates and retires invitations. The raw token is
// returned exactly once per mint; only its SHA-256 fingerprint is stored.
type InviteService struct {
	Store    store.Store
	Audit    *AuditService
	Notifier Notifier
	TTL      time.Duration
}

func (s *InviteService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return InvitationTTL
}

// CreateParams is the input for minting a new invitation.
type CreateParams struct {
	Email    string
	Role     domain.Role
	TeamID   *string
	OfficeID string
}

// Create mints an invitation for an email address. Checks run in wire order:
// email format, role validity, hierarchy, duplicate pending invitation,
// existing account, then team scope. The pending-uniqueness check is backed
// by a partial unique index, so a concurrent double-submit loses at insert
// time with the same already_invited outcome.
func (s *InviteService) Create(ctx context.Context, actor Actor, params CreateParams) (inv domain.Invitation, token string, err error) {
	log := slogx.FromContext(ctx)
	email := strings.ToLower(strings.TrimSpace(params.Email))

	defer func() {
		target := email
		if err == nil {
			target = inv.ID
		}
		s.Audit.Record(ctx, actor.ID, domain.AuditInvitationCreated, target, outcome(map[string]any{
			"email": email,
			"role":  string(params.Role),
		}, err))
	}()

	// 1. Validate the request shape.
	if !emailPattern.MatchString(email) {
		return domain.Invitation{}, "", ErrInvalidEmail
	}
	if !params.Role.Valid() {
		return domain.Invitation{}, "", ErrInvalidRole
	}

	// 2. Hierarchy: only strictly lower-ranked roles may be granted.
	if !actor.Role.CanInvite(params.Role) {
		return domain.Invitation{}, "", ErrRoleNotPermitted
	}

	// 3. One pending invitation per email.
	if _, perr := s.Store.Invitations().GetPendingByEmail(ctx, email); perr == nil {
		return domain.Invitation{}, "", ErrAlreadyInvited
	} else if !errors.Is(perr, store.ErrNotFound) {
		return domain.Invitation{}, "", perr
	}

	// 4. No account may already own the address. Archived rows never match
	// here because their email column holds the archival sentinel.
	if prof, perr := s.Store.Profiles().GetByEmail(ctx, email); perr == nil {
		switch prof.Status {
		case domain.ProfileActive:
			return domain.Invitation{}, "", ErrUserExists
		default:
			return domain.Invitation{}, "", ErrUserInactive
		}
	} else if !errors.Is(perr, store.ErrNotFound) {
		return domain.Invitation{}, "", perr
	}

	// 5. An explicit team must exist and belong to the inviter's office.
	if params.TeamID != nil {
		team, terr := s.Store.Teams().GetByID(ctx, *params.TeamID)
		if errors.Is(terr, store.ErrNotFound) {
			return domain.Invitation{}, "", ErrInvalidTeam
		}
		if terr != nil {
			return domain.Invitation{}, "", terr
		}
		if team.OfficeID != params.OfficeID {
			return domain.Invitation{}, "", ErrInvalidTeam
		}
	}

	// 6. Mint the token and persist. The raw token never touches the store.
	token = cryptox.MustGenerateToken(cryptox.TokenSize256)
	inv = domain.Invitation{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		Email:     email,
		Role:      params.Role,
		TeamID:    params.TeamID,
		OfficeID:  params.OfficeID,
		InviterID: actor.ID,
		Status:    domain.InvitationPending,
		ExpiresAt: time.Now().UTC().Add(s.ttl()),
	}
	if cerr := s.Store.Invitations().Create(ctx, inv); cerr != nil {
		if errors.Is(cerr, store.ErrAlreadyExists) {
			return domain.Invitation{}, "", ErrAlreadyInvited
		}
		return domain.Invitation{}, "", cerr
	}

	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("role", string(inv.Role)),
	)
	if s.Notifier != nil {
		s.Notifier.InvitationCreated(ctx, inv, token)
	}
	return inv, token, nil
}

// Validate resolves a raw token (or, for trusted internal callers, an
// invitation id) to a usable pending invitation. Returns the invitation and
// its resolved office id. Status errors are precise so the caller can report
// already_used, invalid_status and expired distinctly.
func (s *InviteService) Validate(ctx context.Context, tokenOrID string) (domain.Invitation, string, error) {
	inv, err := s.Store.Invitations().GetByTokenHash(ctx, cryptox.FingerprintToken(tokenOrID))
	if errors.Is(err, store.ErrNotFound) {
		inv, err = s.Store.Invitations().GetByID(ctx, tokenOrID)
	}
	if errors.Is(err, store.ErrNotFound) {
		return domain.Invitation{}, "", ErrInvalidToken
	}
	if err != nil {
		return domain.Invitation{}, "", err
	}

	switch inv.Status {
	case domain.InvitationAccepted:
		return domain.Invitation{}, "", ErrInvitationUsed
	case domain.InvitationRevoked:
		return domain.Invitation{}, "", ErrInvitationRevoked
	case domain.InvitationExpired:
		return domain.Invitation{}, "", ErrInvitationExpired
	}
	if time.Now().UTC().After(inv.ExpiresAt) {
		return domain.Invitation{}, "", ErrInvitationExpired
	}

	officeID := inv.ResolvedOfficeID()
	if officeID == "" {
		return domain.Invitation{}, "", ErrInvalidToken
	}
	return inv, officeID, nil
}

// Resend re-arms an invitation with a fresh token and expiry. Allowed from
// pending and expired; accepted and revoked invitations stay retired.
func (s *InviteService) Resend(ctx context.Context, actor Actor, id string) (inv domain.Invitation, token string, err error) {
	defer func() {
		s.Audit.Record(ctx, actor.ID, domain.AuditInvitationResent, id, outcome(nil, err))
	}()

	inv, err = s.Store.Invitations().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Invitation{}, "", ErrInvalidToken
	}
	if err != nil {
		return domain.Invitation{}, "", err
	}
	if inv.Status != domain.InvitationPending && inv.Status != domain.InvitationExpired {
		return domain.Invitation{}, "", ErrInvalidStatus
	}

	token = cryptox.MustGenerateToken(cryptox.TokenSize256)
	inv.TokenHash = cryptox.FingerprintToken(token)
	inv.Status = domain.InvitationPending
	inv.ExpiresAt = time.Now().UTC().Add(s.ttl())

	if rerr := s.Store.Invitations().Renew(ctx, inv.ID, inv.TokenHash, inv.ExpiresAt); rerr != nil {
		if errors.Is(rerr, store.ErrAlreadyExists) {
			// Reviving an expired invitation can collide with a newer pending
			// one for the same email.
			return domain.Invitation{}, "", ErrAlreadyInvited
		}
		return domain.Invitation{}, "", rerr
	}

	if s.Notifier != nil {
		s.Notifier.InvitationCreated(ctx, inv, token)
	}
	return inv, token, nil
}

// Revoke retires a pending invitation so its token can no longer be redeemed.
func (s *InviteService) Revoke(ctx context.Context, actor Actor, id string) (err error) {
	defer func() {
		s.Audit.Record(ctx, actor.ID, domain.AuditInvitationRevoked, id, outcome(nil, err))
	}()

	inv, err := s.Store.Invitations().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return err
	}
	if inv.Status != domain.InvitationPending {
		return ErrInvalidStatus
	}
	return s.Store.Invitations().MarkRevoked(ctx, inv.ID)
}

// ExpireDue flips every pending invitation past its expiry to expired,
// writing one audit entry per row. Housekeeping calls this periodically.
func (s *InviteService) ExpireDue(ctx context.Context) (int, error) {
	due, err := s.Store.Invitations().ListDuePending(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, inv := range due {
		if err := s.Store.Invitations().MarkExpired(ctx, inv.ID); err != nil {
			slogx.FromContext(ctx).Error("failed to expire invitation",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", err),
			)
			continue
		}
		s.Audit.Record(ctx, SystemActorID, domain.AuditInvitationExpired, inv.ID, map[string]any{
			"email": inv.Email,
		})
		expired++
	}
	return expired, nil
}
