package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/internal/members/identity"
	"github.com/keystackhq/keystack/internal/members/store"
	"github.com/keystackhq/keystack/pkg/idx"
)

// seedMember creates a bare account (credential + active profile) with no
// membership or grant, ready for Assign.
func (env *testEnv) seedMember(t *testing.T, officeID, email string) string {
	t.Helper()
	ctx := context.Background()
	userID := idx.New().String()
	require.NoError(t, env.ident.Create(ctx, identity.Credential{
		ID:           userID,
		Email:        email,
		PasswordHash: "x",
	}))
	require.NoError(t, env.store.Profiles().Upsert(ctx, domain.Profile{
		ID:       userID,
		Email:    email,
		Name:     "Member",
		Status:   domain.ProfileActive,
		OfficeID: officeID,
	}))
	return userID
}

func TestAssignPersonalTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	office := env.seedOffice(t, "Main Office")
	userID := env.seedMember(t, office.ID, "member@example.com")

	res, err := env.memberships.Assign(ctx, "actor", userID, domain.RoleSalesperson, nil, office.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PersonalTeamName, res.TeamName)
	require.Equal(t, domain.AccessEdit, res.Access)

	t.Run("profile points at the personal team", func(t *testing.T) {
		prof, err := env.store.Profiles().GetByID(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, prof.PrimaryTeamID)
		require.Equal(t, res.TeamID, *prof.PrimaryTeamID)
	})

	t.Run("assigning again reuses the same team", func(t *testing.T) {
		again, err := env.memberships.Assign(ctx, "actor", userID, domain.RoleSalesperson, nil, office.ID)
		require.NoError(t, err)
		require.Equal(t, res.TeamID, again.TeamID)

		memberships, err := env.store.Memberships().ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, memberships, 1)
	})
}

func TestAssignExplicitTeam(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	office := env.seedOffice(t, "Main Office")
	team := env.seedTeam(t, office.ID, "Sales")

	t.Run("access level follows the role", func(t *testing.T) {
		cases := []struct {
			role domain.Role
			want domain.AccessLevel
		}{
			{domain.RoleTeamLeader, domain.AccessAdmin},
			{domain.RoleSalesperson, domain.AccessEdit},
			{domain.RoleAssistant, domain.AccessEdit},
		}
		for _, tc := range cases {
			userID := env.seedMember(t, office.ID, string(tc.role)+"@example.com")
			res, err := env.memberships.Assign(ctx, "actor", userID, tc.role, &team.ID, office.ID)
			require.NoError(t, err)
			require.Equal(t, tc.want, res.Access)
		}
	})

	t.Run("team in another office is rejected", func(t *testing.T) {
		other := env.seedOffice(t, "Other Office")
		foreign := env.seedTeam(t, other.ID, "Foreign")
		userID := env.seedMember(t, office.ID, "crossed@example.com")

		_, err := env.memberships.Assign(ctx, "actor", userID, domain.RoleSalesperson, &foreign.ID, office.ID)
		var taErr *TeamAssignmentError
		require.ErrorAs(t, err, &taErr)
		require.ErrorIs(t, err, ErrInvalidTeam)
		require.Equal(t, userID, taErr.UserID)
	})

	t.Run("missing team is reported with its id", func(t *testing.T) {
		userID := env.seedMember(t, office.ID, "ghosted@example.com")
		ghost := "01GHOSTTEAM00000000000000"

		_, err := env.memberships.Assign(ctx, "actor", userID, domain.RoleSalesperson, &ghost, office.ID)
		var taErr *TeamAssignmentError
		require.ErrorAs(t, err, &taErr)
		require.Equal(t, ghost, taErr.TeamID)

		// Nothing was committed, not even the primary team pointer.
		prof, perr := env.store.Profiles().GetByID(ctx, userID)
		require.NoError(t, perr)
		require.Nil(t, prof.PrimaryTeamID)
	})
}

func TestEnsurePersonalTeamSurvivesCreateRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	office := env.seedOffice(t, "Main Office")
	userID := env.seedMember(t, office.ID, "racer@example.com")

	first, err := env.memberships.EnsurePersonalTeam(ctx, userID, office.ID)
	require.NoError(t, err)
	require.True(t, first.Personal)

	// A losing insert must fall back to the winner's row.
	clash := domain.Team{
		ID:       idx.New().String(),
		Name:     domain.PersonalTeamName,
		OfficeID: office.ID,
		Personal: true,
		OwnerID:  userID,
	}
	require.ErrorIs(t, env.store.Teams().Create(ctx, clash), store.ErrAlreadyExists)

	second, err := env.memberships.EnsurePersonalTeam(ctx, userID, office.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}
