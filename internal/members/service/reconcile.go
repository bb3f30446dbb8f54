package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/identity"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/pkg/cryptox"
	"github.com/keystackhq/keystack/pkg/idx"
	"github.com/keystackhq/keystack/pkg/slogx"
)

// CrossOfficeStrategy selects how a cross-office membership mismatch is
// resolved.
type CrossOfficeStrategy string

const (
	// StrategyMoveUser repoints the profile at the team's office.
	StrategyMoveUser CrossOfficeStrategy = "move_user"
	// StrategyRemoveMembership drops the offending membership row.
	StrategyRemoveMembership CrossOfficeStrategy = "remove_membership"
	// StrategyDuplicateTeam recreates the team inside the member's office
	// and moves the membership there.
	StrategyDuplicateTeam CrossOfficeStrategy = "duplicate_team"
)

// ParseCrossOfficeStrategy validates a wire-format strategy string.
func ParseCrossOfficeStrategy(s string) (CrossOfficeStrategy, error) {
	switch cs := CrossOfficeStrategy(s); cs {
	case StrategyMoveUser, StrategyRemoveMembership, StrategyDuplicateTeam:
		return cs, nil
	default:
		return "", fmt.Errorf("unknown cross-office strategy %q", s)
	}
}

// ReconcileService repairs the drifted states the provisioning saga can
// leave behind. Every operation works item by item: one bad record is
// reported and skipped, never allowed to abort the rest of the sweep.
type ReconcileService struct {
	Store       store.Store
	Identity    identity.Store
	Audit       *AuditService
	Roles       *RoleService
	Memberships *MembershipService
}

// ArchiveOrphanProfiles archives non-archived profiles whose credential no
// longer exists. Archival frees the email for re-invitation while keeping
// the row (and its original address) for the audit trail.
func (s *ReconcileService) ArchiveOrphanProfiles(ctx context.Context, actorID string) (int, error) {
	profiles, err := s.Store.Profiles().List(ctx)
	if err != nil {
		return 0, err
	}

	log := slogx.FromContext(ctx)
	archived := 0
	for _, prof := range profiles {
		if prof.Status == domain.ProfileArchived {
			continue
		}
		_, ierr := s.Identity.GetByID(ctx, prof.ID)
		if ierr == nil {
			continue
		}
		if !errors.Is(ierr, identity.ErrNotFound) {
			log.Error("orphan sweep: credential lookup failed",
				slog.String("user_id", prof.ID),
				slog.Any("error", ierr),
			)
			continue
		}

		sentinel := domain.ArchivedEmail(prof.ID, time.Now().UTC())
		if aerr := s.Store.Profiles().Archive(ctx, prof.ID, sentinel); aerr != nil {
			log.Error("orphan sweep: archive failed",
				slog.String("user_id", prof.ID),
				slog.Any("error", aerr),
			)
			continue
		}
		s.Audit.Record(ctx, actorID, domain.AuditProfileArchived, prof.ID, map[string]any{
			"original_email": prof.Email,
			"sentinel":       sentinel,
			"reason":         "credential missing",
		})
		archived++
	}
	return archived, nil
}

// RemoveInvalidInvitations retires pending invitations that can no longer be
// redeemed: the office or referenced team is gone (or no office was ever
// recorded), or the email now belongs to an active account.
func (s *ReconcileService) RemoveInvalidInvitations(ctx context.Context, actorID string) (int, error) {
	pending, err := s.Store.Invitations().ListPending(ctx)
	if err != nil {
		return 0, err
	}

	log := slogx.FromContext(ctx)
	removed := 0
	for _, inv := range pending {
		reason := ""

		officeID := inv.ResolvedOfficeID()
		if officeID == "" {
			reason = "no office recorded"
		} else if _, oerr := s.Store.Offices().GetByID(ctx, officeID); errors.Is(oerr, store.ErrNotFound) {
			reason = "office no longer exists"
		} else if oerr != nil {
			log.Error("invitation sweep: office lookup failed",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", oerr),
			)
			continue
		}

		if reason == "" && inv.TeamID != nil && *inv.TeamID != "" {
			if _, terr := s.Store.Teams().GetByID(ctx, *inv.TeamID); errors.Is(terr, store.ErrNotFound) {
				reason = "team no longer exists"
			} else if terr != nil {
				log.Error("invitation sweep: team lookup failed",
					slog.String("invitation_id", inv.ID),
					slog.Any("error", terr),
				)
				continue
			}
		}

		if reason == "" {
			prof, perr := s.Store.Profiles().GetByEmail(ctx, inv.Email)
			if perr == nil && prof.Status == domain.ProfileActive && prof.Configured() {
				reason = "email already belongs to an active account"
			} else if perr != nil && !errors.Is(perr, store.ErrNotFound) {
				log.Error("invitation sweep: profile lookup failed",
					slog.String("invitation_id", inv.ID),
					slog.Any("error", perr),
				)
				continue
			}
		}
		if reason == "" {
			continue
		}

		if derr := s.Store.Invitations().Delete(ctx, inv.ID); derr != nil {
			log.Error("invitation sweep: delete failed",
				slog.String("invitation_id", inv.ID),
				slog.Any("error", derr),
			)
			continue
		}
		s.Audit.Record(ctx, actorID, domain.AuditInvitationRemoved, inv.ID, map[string]any{
			"email":  inv.Email,
			"reason": reason,
		})
		removed++
	}
	return removed, nil
}

// CrossOfficeItem reports one membership whose team sits in a different
// office than the member.
type CrossOfficeItem struct {
	UserID string `json:"user_id"`
	TeamID string `json:"team_id"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

// CrossOfficeReport summarizes a cross-office repair run.
type CrossOfficeReport struct {
	Scanned int
	Fixed   int
	Items   []CrossOfficeItem
}

// FixCrossOffice finds memberships pointing at teams outside the member's
// office and resolves each with the chosen strategy. An empty userID scans
// every profile.
func (s *ReconcileService) FixCrossOffice(ctx context.Context, actorID string, strategy CrossOfficeStrategy, userID string) (CrossOfficeReport, error) {
	var profiles []domain.Profile
	if userID != "" {
		prof, err := s.Store.Profiles().GetByID(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			return CrossOfficeReport{}, ErrUserNotFound
		}
		if err != nil {
			return CrossOfficeReport{}, err
		}
		profiles = []domain.Profile{prof}
	} else {
		var err error
		profiles, err = s.Store.Profiles().List(ctx)
		if err != nil {
			return CrossOfficeReport{}, err
		}
	}

	report := CrossOfficeReport{}
	for _, prof := range profiles {
		if prof.OfficeID == "" || prof.Status == domain.ProfileArchived {
			continue
		}
		memberships, err := s.Store.Memberships().ListByUser(ctx, prof.ID)
		if err != nil {
			report.Items = append(report.Items, CrossOfficeItem{UserID: prof.ID, Error: err.Error()})
			continue
		}
		for _, m := range memberships {
			team, terr := s.Store.Teams().GetByID(ctx, m.TeamID)
			if terr != nil {
				report.Items = append(report.Items, CrossOfficeItem{UserID: prof.ID, TeamID: m.TeamID, Error: terr.Error()})
				continue
			}
			if team.OfficeID == prof.OfficeID {
				continue
			}
			report.Scanned++

			item := CrossOfficeItem{UserID: prof.ID, TeamID: team.ID, Action: string(strategy)}
			ferr := s.fixMismatch(ctx, strategy, prof, m, team)
			if ferr != nil {
				item.Error = ferr.Error()
			} else {
				report.Fixed++
			}
			report.Items = append(report.Items, item)

			s.Audit.Record(ctx, actorID, domain.AuditMembershipMoved, prof.ID, outcome(map[string]any{
				"team_id":     team.ID,
				"team_office": team.OfficeID,
				"user_office": prof.OfficeID,
				"strategy":    string(strategy),
			}, ferr))
		}
	}
	return report, nil
}

func (s *ReconcileService) fixMismatch(ctx context.Context, strategy CrossOfficeStrategy, prof domain.Profile, m domain.TeamMembership, team domain.Team) error {
	switch strategy {
	case StrategyMoveUser:
		return s.Store.Profiles().SetOffice(ctx, prof.ID, team.OfficeID)

	case StrategyRemoveMembership:
		if err := s.Store.Memberships().Delete(ctx, prof.ID, team.ID); err != nil {
			return err
		}
		if prof.PrimaryTeamID != nil && *prof.PrimaryTeamID == team.ID {
			return s.Store.Profiles().SetPrimaryTeam(ctx, prof.ID, nil)
		}
		return nil

	case StrategyDuplicateTeam:
		target, err := s.Store.Teams().GetByName(ctx, prof.OfficeID, team.Name)
		if errors.Is(err, store.ErrNotFound) {
			target = domain.Team{
				ID:       idx.New().String(),
				Name:     team.Name,
				OfficeID: prof.OfficeID,
			}
			if cerr := s.Store.Teams().Create(ctx, target); cerr != nil {
				return cerr
			}
		} else if err != nil {
			return err
		}
		if merr := s.Store.Memberships().Move(ctx, prof.ID, team.ID, target.ID); merr != nil {
			return merr
		}
		if prof.PrimaryTeamID != nil && *prof.PrimaryTeamID == team.ID {
			return s.Store.Profiles().SetPrimaryTeam(ctx, prof.ID, &target.ID)
		}
		return nil

	default:
		return fmt.Errorf("unknown cross-office strategy %q", strategy)
	}
}

// MergeUsers folds a duplicate account (removeID) into the one being kept
// (keepID). Memberships and role grants transfer only when the keep side has
// none of its own; otherwise the keep side's records win and the remove
// side's rows are dropped. Audit history is never moved: entries keep the id
// they were written against.
func (s *ReconcileService) MergeUsers(ctx context.Context, actorID, keepID, removeID string) (err error) {
	defer func() {
		s.Audit.Record(ctx, actorID, domain.AuditProfileMerged, keepID, outcome(map[string]any{
			"removed_user_id": removeID,
		}, err))
	}()

	if keepID == removeID {
		return fmt.Errorf("cannot merge a user into itself")
	}
	keepProf, err := s.Store.Profiles().GetByID(ctx, keepID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	removeProf, err := s.Store.Profiles().GetByID(ctx, removeID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	keepGrants, err := s.Store.RoleGrants().ListActiveByUser(ctx, keepID)
	if err != nil {
		return err
	}
	removeGrants, err := s.Store.RoleGrants().ListActiveByUser(ctx, removeID)
	if err != nil {
		return err
	}

	// If the remove side holds the only platform_admin grant and it will not
	// transfer, the merge would lock everyone out.
	grantsTransfer := len(keepGrants) == 0
	if !grantsTransfer {
		for _, g := range removeGrants {
			if g.Role != domain.RolePlatformAdmin {
				continue
			}
			if gerr := s.Roles.EnsurePlatformAdminRemains(ctx, removeID); gerr != nil {
				return gerr
			}
		}
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		keepMemberships, merr := tx.Memberships().ListByUser(ctx, keepID)
		if merr != nil {
			return merr
		}
		membershipsTransfer := len(keepMemberships) == 0

		if membershipsTransfer {
			if merr := tx.Memberships().TransferAll(ctx, removeID, keepID); merr != nil {
				return merr
			}
		} else {
			if merr := tx.Memberships().DeleteByUser(ctx, removeID); merr != nil {
				return merr
			}
		}

		if grantsTransfer {
			if gerr := tx.RoleGrants().TransferAll(ctx, removeID, keepID); gerr != nil {
				return gerr
			}
		} else {
			if gerr := tx.RoleGrants().DeleteByUser(ctx, removeID); gerr != nil {
				return gerr
			}
		}

		if membershipsTransfer && keepProf.PrimaryTeamID == nil && removeProf.PrimaryTeamID != nil {
			if perr := tx.Profiles().SetPrimaryTeam(ctx, keepID, removeProf.PrimaryTeamID); perr != nil {
				return perr
			}
		}
		return tx.Profiles().Delete(ctx, removeID)
	})
	if err != nil {
		return err
	}

	// The credential lives outside the transaction above; deleting it last
	// means a crash here leaves an orphan credential, not an orphan profile.
	if derr := s.Identity.Delete(ctx, removeID); derr != nil && !errors.Is(derr, identity.ErrNotFound) {
		slogx.FromContext(ctx).Error("merge: failed to delete duplicate credential",
			slog.String("user_id", removeID),
			slog.Any("error", derr),
		)
	}
	return nil
}

// RepairParams selects what RepairUser should fill in.
type RepairParams struct {
	UserID        string
	OfficeID      string
	TeamID        *string
	Role          domain.Role
	ResetPassword bool
	Unban         bool
}

// RepairResult reports what changed.
type RepairResult struct {
	Repaired     []string
	TempPassword string
}

// RepairUser completes a half-provisioned account: given a target office,
// team and role it fills in whichever of office id, membership row, primary
// team pointer and role grant is missing, restores an archived email, and
// optionally resets the password and lifts a ban. Fields already present are
// left untouched.
func (s *ReconcileService) RepairUser(ctx context.Context, actorID string, params RepairParams) (res RepairResult, err error) {
	defer func() {
		s.Audit.Record(ctx, actorID, domain.AuditProfileRepaired, params.UserID, outcome(map[string]any{
			"repaired": res.Repaired,
		}, err))
	}()

	prof, err := s.Store.Profiles().GetByID(ctx, params.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return RepairResult{}, ErrUserNotFound
	}
	if err != nil {
		return RepairResult{}, err
	}

	// Restore an archived account first so the remaining steps see a live row.
	if prof.Status == domain.ProfileArchived {
		if prof.OriginalEmail != "" {
			if rerr := s.Store.Profiles().RestoreEmail(ctx, prof.ID); rerr != nil {
				return res, rerr
			}
			if uerr := s.Identity.UpdateEmail(ctx, prof.ID, prof.OriginalEmail); uerr != nil && !errors.Is(uerr, identity.ErrNotFound) {
				return res, uerr
			}
		}
		if serr := s.Store.Profiles().SetStatus(ctx, prof.ID, domain.ProfileActive); serr != nil {
			return res, serr
		}
		res.Repaired = append(res.Repaired, "restored")
		prof, err = s.Store.Profiles().GetByID(ctx, prof.ID)
		if err != nil {
			return res, err
		}
	}

	if prof.OfficeID == "" && params.OfficeID != "" {
		if serr := s.Store.Profiles().SetOffice(ctx, prof.ID, params.OfficeID); serr != nil {
			return res, serr
		}
		prof.OfficeID = params.OfficeID
		res.Repaired = append(res.Repaired, "office")
	}

	if prof.OfficeID != "" {
		role := params.Role
		if !role.Valid() {
			role = domain.RoleSalesperson
		}
		teamID := params.TeamID
		assign := false
		if prof.PrimaryTeamID == nil || *prof.PrimaryTeamID == "" {
			assign = true
		} else if _, merr := s.Store.Memberships().Get(ctx, prof.ID, *prof.PrimaryTeamID); errors.Is(merr, store.ErrNotFound) {
			// The pointer survived but its membership row did not; recreate
			// the row for the team the pointer already names.
			assign = true
			if teamID == nil {
				teamID = prof.PrimaryTeamID
			}
		} else if merr != nil {
			return res, merr
		}
		if assign {
			if _, aerr := s.Memberships.Assign(ctx, actorID, prof.ID, role, teamID, prof.OfficeID); aerr != nil {
				return res, aerr
			}
			res.Repaired = append(res.Repaired, "team")
		}
	}

	if params.Role.Valid() {
		has, herr := s.Roles.HasActive(ctx, prof.ID, params.Role)
		if herr != nil {
			return res, herr
		}
		if !has {
			if gerr := s.Roles.Grant(ctx, actorID, prof.ID, params.Role); gerr != nil {
				return res, gerr
			}
			res.Repaired = append(res.Repaired, "role")
		}
	}

	if params.ResetPassword {
		temp := cryptox.MustGenerateToken(cryptox.TokenSize128)
		hash, herr := cryptox.HashPassword(temp)
		if herr != nil {
			return res, herr
		}
		if uerr := s.Identity.UpdatePassword(ctx, prof.ID, hash); uerr != nil {
			return res, uerr
		}
		res.TempPassword = temp
		res.Repaired = append(res.Repaired, "password")
	}
	if params.Unban {
		if berr := s.Identity.SetBanned(ctx, prof.ID, false); berr != nil {
			return res, berr
		}
		res.Repaired = append(res.Repaired, "unbanned")
	}
	return res, nil
}
