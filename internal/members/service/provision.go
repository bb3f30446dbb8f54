package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/identity"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/pkg/cryptox"
	"github.com/keystackhq/keystack/pkg/idx"
	"github.com/keystackhq/keystack/pkg/slogx"
)

// ProvisionService runs the accept-invitation saga. No transaction spans the
// credential store and the relational records, so the flow is a sequence of
// idempotent steps with a verification gate at the end instead of rollback:
//
//	validate -> credential -> profile -> membership -> role -> verify -> retire invitation
//
// Partial completions leave the invitation pending; a retry with the same
// token resumes from whatever already exists.
type ProvisionService struct {
	Store       store.Store
	Identity    identity.Store
	Audit       *AuditService
	Invites     *InviteService
	Memberships *MembershipService
	Roles       *RoleService
	Verifier    *VerifyService
}

// AcceptParams is the redemption input. Password is optional; accounts
// without one complete onboarding through a separate reset flow.
type AcceptParams struct {
	Token    string
	Name     string
	Phone    string
	Password string
}

// Warning is a non-fatal step failure attached to a committed Accept.
type Warning struct {
	Code     string `json:"code"`
	TeamName string `json:"team_name,omitempty"`
}

// AcceptResult reports the committed account.
type AcceptResult struct {
	UserID   string
	OfficeID string
	TeamID   string
	Role     domain.Role
	Resumed  bool
	Warnings []Warning
}

// Accept redeems an invitation token and provisions the account. On full
// success the invitation is marked accepted. When only the team or role step
// fails, the account is still committed and the failure comes back as a
// warning; the invitation stays pending so a retry can finish the job. An
// incomplete profile with no warning to explain it is the critical case and
// returns *IncompleteProfileError.
func (s *ProvisionService) Accept(ctx context.Context, params AcceptParams) (AcceptResult, error) {
	log := slogx.FromContext(ctx)

	inv, officeID, err := s.Invites.Validate(ctx, params.Token)
	if err != nil {
		return AcceptResult{}, err
	}
	log = log.With(slog.String("invitation_id", inv.ID))

	userID, resumed, err := s.ensureAccount(ctx, inv, officeID, params)
	if err != nil {
		s.Audit.Record(ctx, inv.InviterID, domain.AuditProfileProvisioned, inv.Email,
			outcome(map[string]any{"invitation_id": inv.ID}, err))
		return AcceptResult{}, err
	}
	res := AcceptResult{UserID: userID, OfficeID: officeID, Role: inv.Role, Resumed: resumed}
	s.Audit.Record(ctx, inv.InviterID, domain.AuditProfileProvisioned, userID, map[string]any{
		"invitation_id": inv.ID,
		"resumed":       resumed,
	})

	assign, aerr := s.Memberships.Assign(ctx, inv.InviterID, userID, inv.Role, inv.TeamID, officeID)
	if aerr != nil {
		var tae *TeamAssignmentError
		name := ""
		if errors.As(aerr, &tae) {
			name = tae.TeamName
		}
		log.Error("team assignment failed during provisioning",
			slog.String("user_id", userID),
			slog.Any("error", aerr),
		)
		res.Warnings = append(res.Warnings, Warning{Code: WarnTeamAssignmentFailed, TeamName: name})
	} else {
		res.TeamID = assign.TeamID
	}

	if gerr := s.Roles.Grant(ctx, inv.InviterID, userID, inv.Role); gerr != nil {
		log.Error("role grant failed during provisioning",
			slog.String("user_id", userID),
			slog.Any("error", gerr),
		)
		res.Warnings = append(res.Warnings, Warning{Code: WarnRoleAssignmentFailed})
	}

	if verr := s.Verifier.Verify(ctx, inv.InviterID, userID); verr != nil {
		var incomplete *IncompleteProfileError
		if errors.As(verr, &incomplete) && len(res.Warnings) > 0 {
			// The warning already explains why the profile is incomplete.
			// Leave the invitation pending so retrying the token resumes.
			return res, nil
		}
		return res, verr
	}

	if merr := s.Store.Invitations().MarkAccepted(ctx, inv.ID, time.Now().UTC()); merr != nil {
		// The account is complete; a retry will hit already_used only once
		// this write eventually lands. Log and report success.
		log.Error("failed to mark invitation accepted",
			slog.Any("error", merr),
		)
	} else {
		s.Audit.Record(ctx, userID, domain.AuditInvitationAccept, inv.ID, map[string]any{
			"user_id": userID,
		})
	}

	log.Info("account provisioned",
		slog.String("user_id", userID),
		slog.String("role", string(inv.Role)),
		slog.Bool("resumed", resumed),
	)
	return res, nil
}

// ensureAccount makes the credential and profile exist for the invited
// email, reusing whatever a previous partial run left behind. Active
// configured accounts reject with ErrUserExists; suspended ones with
// ErrUserInactive; inactive ones are archived to free the email.
func (s *ProvisionService) ensureAccount(ctx context.Context, inv domain.Invitation, officeID string, params AcceptParams) (string, bool, error) {
	var userID string
	resumed := false

	cred, err := s.Identity.GetByEmail(ctx, inv.Email)
	switch {
	case err == nil:
		// A credential already owns this email: either a completed account
		// (reject) or a partial run (resume).
		prof, perr := s.Store.Profiles().GetByID(ctx, cred.ID)
		if perr == nil {
			switch {
			case prof.Status == domain.ProfileSuspended:
				return "", false, ErrUserInactive
			case prof.Status == domain.ProfileActive && prof.Configured():
				return "", false, ErrUserExists
			}
		} else if !errors.Is(perr, store.ErrNotFound) {
			return "", false, perr
		}
		userID = cred.ID
		resumed = true
		if params.Password != "" {
			hash, herr := cryptox.HashPassword(params.Password)
			if herr != nil {
				return "", false, herr
			}
			if uerr := s.Identity.UpdatePassword(ctx, userID, hash); uerr != nil {
				return "", false, uerr
			}
		}

	case errors.Is(err, identity.ErrNotFound):
		// No credential. A stale profile row may still hold the email.
		if perr := s.retireStaleProfile(ctx, inv); perr != nil {
			return "", false, perr
		}
		hash := ""
		if params.Password != "" {
			var herr error
			hash, herr = cryptox.HashPassword(params.Password)
			if herr != nil {
				return "", false, herr
			}
		}
		userID = idx.New().String()
		cerr := s.Identity.Create(ctx, identity.Credential{
			ID:           userID,
			Email:        inv.Email,
			PasswordHash: hash,
		})
		if errors.Is(cerr, identity.ErrEmailTaken) {
			// Lost a race with a concurrent accept of the same token.
			// Adopt the winner's credential and resume.
			winner, gerr := s.Identity.GetByEmail(ctx, inv.Email)
			if gerr != nil {
				return "", false, gerr
			}
			userID = winner.ID
			resumed = true
		} else if cerr != nil {
			return "", false, cerr
		}

	default:
		return "", false, err
	}

	prof := domain.Profile{
		ID:          userID,
		Email:       inv.Email,
		Name:        params.Name,
		Phone:       params.Phone,
		Status:      domain.ProfileActive,
		OfficeID:    officeID,
		PasswordSet: params.Password != "",
	}
	if uerr := s.Store.Profiles().Upsert(ctx, prof); uerr != nil {
		return "", false, uerr
	}
	return userID, resumed, nil
}

// retireStaleProfile archives a credential-less profile row that still holds
// the invited email. Only inactive rows are archived: an active row here
// means credential/profile drift that repair tooling must resolve first, and
// suspended accounts are never silently replaced.
func (s *ProvisionService) retireStaleProfile(ctx context.Context, inv domain.Invitation) error {
	prof, err := s.Store.Profiles().GetByEmail(ctx, inv.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	switch prof.Status {
	case domain.ProfileActive:
		return ErrUserExists
	case domain.ProfileSuspended:
		return ErrUserInactive
	}

	now := time.Now().UTC()
	sentinel := domain.ArchivedEmail(prof.ID, now)
	if aerr := s.Store.Profiles().Archive(ctx, prof.ID, sentinel); aerr != nil {
		return aerr
	}
	s.Audit.Record(ctx, inv.InviterID, domain.AuditProfileArchived, prof.ID, map[string]any{
		"original_email": prof.Email,
		"sentinel":       sentinel,
		"reason":         "email reused by invitation",
		"invitation_id":  inv.ID,
	})
	return nil
}
