package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/pkg/idx"
	"github.com/keystackhq/keystack/pkg/slogx"
)

// MembershipService places members into teams and keeps the profile's
// primary-team pointer in step. Every mutation is read-back verified: a
// membership only counts once it has been observed in a fresh query.
type MembershipService struct {
	Store store.Store
	Audit *AuditService
}

// AssignResult reports where a member ended up.
type AssignResult struct {
	TeamID   string
	TeamName string
	Access   domain.AccessLevel
}

// Assign attaches a member to a team and marks it their primary team. With a
// nil teamID the member gets (or reuses) their personal team. Idempotent: an
// existing membership row for the resolved team short-circuits to success.
// Failures come back as *TeamAssignmentError so callers can treat the step
// as non-fatal while preserving the team name for the operator.
func (s *MembershipService) Assign(ctx context.Context, actorID, userID string, role domain.Role, teamID *string, officeID string) (res AssignResult, err error) {
	defer func() {
		action := domain.AuditMembershipAssigned
		if err != nil {
			action = domain.AuditMembershipAssignFailed
		}
		s.Audit.Record(ctx, actorID, action, userID, outcome(map[string]any{
			"team_id":   res.TeamID,
			"team_name": res.TeamName,
		}, err))
	}()

	team, err := s.resolveTeam(ctx, userID, teamID, officeID)
	if err != nil {
		name := ""
		id := ""
		if teamID != nil {
			id = *teamID
		}
		return AssignResult{}, &TeamAssignmentError{UserID: userID, TeamID: id, TeamName: name, Err: err}
	}
	res = AssignResult{TeamID: team.ID, TeamName: team.Name, Access: role.AccessLevel()}

	fail := func(step string, cause error) (AssignResult, error) {
		return res, &TeamAssignmentError{
			UserID:   userID,
			TeamID:   team.ID,
			TeamName: team.Name,
			Err:      fmt.Errorf("%s: %w", step, cause),
		}
	}

	if _, gerr := s.Store.Memberships().Get(ctx, userID, team.ID); errors.Is(gerr, store.ErrNotFound) {
		cerr := s.Store.Memberships().Create(ctx, domain.TeamMembership{
			UserID:      userID,
			TeamID:      team.ID,
			AccessLevel: res.Access,
		})
		if cerr != nil && !errors.Is(cerr, store.ErrAlreadyExists) {
			return fail("create membership", cerr)
		}
	} else if gerr != nil {
		return fail("check membership", gerr)
	}

	// Read-back: the row must be observable before we point the profile at it.
	if _, gerr := s.Store.Memberships().Get(ctx, userID, team.ID); gerr != nil {
		return fail("verify membership", gerr)
	}

	if perr := s.Store.Profiles().SetPrimaryTeam(ctx, userID, &team.ID); perr != nil {
		return fail("set primary team", perr)
	}

	slogx.FromContext(ctx).Info("membership assigned",
		slog.String("user_id", userID),
		slog.String("team_id", team.ID),
		slog.String("access", string(res.Access)),
	)
	return res, nil
}

func (s *MembershipService) resolveTeam(ctx context.Context, userID string, teamID *string, officeID string) (domain.Team, error) {
	if teamID == nil || *teamID == "" {
		return s.EnsurePersonalTeam(ctx, userID, officeID)
	}
	team, err := s.Store.Teams().GetByID(ctx, *teamID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Team{}, ErrInvalidTeam
	}
	if err != nil {
		return domain.Team{}, err
	}
	if team.OfficeID != officeID {
		return domain.Team{}, ErrInvalidTeam
	}
	return team, nil
}

// EnsurePersonalTeam returns the member's personal team in an office,
// creating it on first use. Concurrent creation loses at the partial unique
// index on (owner, office) and falls back to the winner's row.
func (s *MembershipService) EnsurePersonalTeam(ctx context.Context, userID, officeID string) (domain.Team, error) {
	team, err := s.Store.Teams().GetPersonal(ctx, userID, officeID)
	if err == nil {
		return team, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Team{}, err
	}

	team = domain.Team{
		ID:       idx.New().String(),
		Name:     domain.PersonalTeamName,
		OfficeID: officeID,
		Personal: true,
		OwnerID:  userID,
	}
	cerr := s.Store.Teams().Create(ctx, team)
	if errors.Is(cerr, store.ErrAlreadyExists) {
		return s.Store.Teams().GetPersonal(ctx, userID, officeID)
	}
	if cerr != nil {
		return domain.Team{}, cerr
	}
	return team, nil
}
