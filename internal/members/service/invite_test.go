package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keystackhq/keystack/internal/members/domain"
)

func TestCreateInviteValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.seedOffice(t, "Main Office")
	admin := env.seedAdmin(t, office.ID, "admin@example.com")
	actor := adminActor(admin)

	t.Run("rejects malformed email", func(t *testing.T) {
		_, _, err := env.invites.Create(ctx, actor, CreateParams{
			Email:    "not-an-email",
			Role:     domain.RoleSalesperson,
			OfficeID: office.ID,
		})
		require.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, _, err := env.invites.Create(ctx, actor, CreateParams{
			Email:    "new@example.com",
			Role:     domain.Role("superuser"),
			OfficeID: office.ID,
		})
		require.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("rejects missing team", func(t *testing.T) {
		missing := "01TEAMDOESNOTEXIST0000000"
		_, _, err := env.invites.Create(ctx, actor, CreateParams{
			Email:    "new@example.com",
			Role:     domain.RoleSalesperson,
			TeamID:   &missing,
			OfficeID: office.ID,
		})
		require.ErrorIs(t, err, ErrInvalidTeam)
	})

	t.Run("rejects team in another office", func(t *testing.T) {
		other := env.seedOffice(t, "Other Office")
		team := env.seedTeam(t, other.ID, "Sales")
		_, _, err := env.invites.Create(ctx, actor, CreateParams{
			Email:    "new@example.com",
			Role:     domain.RoleSalesperson,
			TeamID:   &team.ID,
			OfficeID: office.ID,
		})
		require.ErrorIs(t, err, ErrInvalidTeam)
	})

	t.Run("rejects email of an active account", func(t *testing.T) {
		_, _, err := env.invites.Create(ctx, actor, CreateParams{
			Email:    "admin@example.com",
			Role:     domain.RoleSalesperson,
			OfficeID: office.ID,
		})
		require.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("rejects email of an inactive account", func(t *testing.T) {
		inactive := env.seedAdmin(t, office.ID, "inactive@example.com")
		require.NoError(t, env.store.Profiles().SetStatus(ctx, inactive.ID, domain.ProfileInactive))

		_, _, err := env.invites.Create(ctx, actor, CreateParams{
			Email:    "inactive@example.com",
			Role:     domain.RoleSalesperson,
			OfficeID: office.ID,
		})
		require.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("normalizes email to lower case", func(t *testing.T) {
		inv, _ := env.mintInvite(t, actor, office.ID, "Mixed.Case@Example.COM", domain.RoleAssistant, nil)
		require.Equal(t, "mixed.case@example.com", inv.Email)
	})
}

func TestCreateInviteHierarchy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	office := env.seedOffice(t, "Main Office")

	cases := []struct {
		name    string
		inviter domain.Role
		target  domain.Role
		wantErr error
	}{
		{"admin invites office manager", domain.RolePlatformAdmin, domain.RoleOfficeManager, nil},
		{"admin cannot invite admin", domain.RolePlatformAdmin, domain.RolePlatformAdmin, ErrRoleNotPermitted},
		{"manager invites team leader", domain.RoleOfficeManager, domain.RoleTeamLeader, nil},
		{"manager cannot invite manager", domain.RoleOfficeManager, domain.RoleOfficeManager, ErrRoleNotPermitted},
		{"team leader invites salesperson", domain.RoleTeamLeader, domain.RoleSalesperson, nil},
		{"salesperson cannot invite upward", domain.RoleSalesperson, domain.RoleTeamLeader, ErrRoleNotPermitted},
		{"assistant cannot invite anyone", domain.RoleAssistant, domain.RoleAssistant, ErrRoleNotPermitted},
	}

	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actor := Actor{ID: "actor", Role: tc.inviter}
			_, _, err := env.invites.Create(ctx, actor, CreateParams{
				Email:    emailForCase(i),
				Role:     tc.target,
				OfficeID: office.ID,
			})
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func emailForCase(i int) string {
	return string(rune('a'+i)) + "@example.com"
}

func TestCreateInvitePendingUniqueness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	office := env.seedOffice(t, "Main Office")
	admin := env.seedAdmin(t, office.ID, "admin@example.com")
	actor := adminActor(admin)

	env.mintInvite(t, actor, office.ID, "dup@example.com", domain.RoleSalesperson, nil)

	_, _, err := env.invites.Create(ctx, actor, CreateParams{
		Email:    "dup@example.com",
		Role:     domain.RoleAssistant,
		OfficeID: office.ID,
	})
	require.ErrorIs(t, err, ErrAlreadyInvited)

	t.Run("constraint backs the check under races", func(t *testing.T) {
		// Bypass the service-level pre-check and insert directly: the
		// partial unique index must still refuse a second pending row.
		inv := domain.Invitation{
			ID:        "race-insert",
			TokenHash: "race-hash",
			Email:     "dup@example.com",
			Role:      domain.RoleAssistant,
			OfficeID:  office.ID,
			InviterID: admin.ID,
			Status:    domain.InvitationPending,
		}
		err := env.store.Invitations().Create(ctx, inv)
		require.Error(t, err)
	})

	t.Run("revoked invitation frees the email", func(t *testing.T) {
		pending, err := env.store.Invitations().GetPendingByEmail(ctx, "dup@example.com")
		require.NoError(t, err)
		require.NoError(t, env.invites.Revoke(ctx, actor, pending.ID))

		env.mintInvite(t, actor, office.ID, "dup@example.com", domain.RoleSalesperson, nil)
	})
}

func TestResendInvite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	office := env.seedOffice(t, "Main Office")
	admin := env.seedAdmin(t, office.ID, "admin@example.com")
	actor := adminActor(admin)

	t.Run("pending invitation gets a fresh token", func(t *testing.T) {
		inv, token := env.mintInvite(t, actor, office.ID, "resend@example.com", domain.RoleSalesperson, nil)

		renewed, newToken, err := env.invites.Resend(ctx, actor, inv.ID)
		require.NoError(t, err)
		require.NotEqual(t, token, newToken)
		require.Equal(t, domain.InvitationPending, renewed.Status)
		require.True(t, renewed.ExpiresAt.After(inv.CreatedAt))

		// The old token is dead.
		_, _, err = env.invites.Validate(ctx, token)
		require.ErrorIs(t, err, ErrInvalidToken)

		// The new one resolves.
		got, _, err := env.invites.Validate(ctx, newToken)
		require.NoError(t, err)
		require.Equal(t, inv.ID, got.ID)
	})

	t.Run("expired invitation can be revived", func(t *testing.T) {
		inv, _ := env.mintInvite(t, actor, office.ID, "revive@example.com", domain.RoleSalesperson, nil)
		require.NoError(t, env.store.Invitations().MarkExpired(ctx, inv.ID))

		renewed, _, err := env.invites.Resend(ctx, actor, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, renewed.Status)
	})

	t.Run("accepted invitation stays retired", func(t *testing.T) {
		inv, token := env.mintInvite(t, actor, office.ID, "done@example.com", domain.RoleSalesperson, nil)
		_, err := env.provision.Accept(ctx, AcceptParams{Token: token, Name: "Done", Password: "pw123456"})
		require.NoError(t, err)

		_, _, err = env.invites.Resend(ctx, actor, inv.ID)
		require.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, _, err := env.invites.Resend(ctx, actor, "no-such-id")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRevokeInvite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	office := env.seedOffice(t, "Main Office")
	admin := env.seedAdmin(t, office.ID, "admin@example.com")
	actor := adminActor(admin)

	inv, token := env.mintInvite(t, actor, office.ID, "revoke@example.com", domain.RoleSalesperson, nil)
	require.NoError(t, env.invites.Revoke(ctx, actor, inv.ID))

	t.Run("revoked token cannot be redeemed", func(t *testing.T) {
		_, err := env.provision.Accept(ctx, AcceptParams{Token: token, Name: "X", Password: "pw123456"})
		require.ErrorIs(t, err, ErrInvitationRevoked)
	})

	t.Run("revoking twice fails", func(t *testing.T) {
		require.ErrorIs(t, env.invites.Revoke(ctx, actor, inv.ID), ErrInvalidStatus)
	})
}

func TestExpireDueSweep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	office := env.seedOffice(t, "Main Office")
	admin := env.seedAdmin(t, office.ID, "admin@example.com")
	actor := adminActor(admin)

	due1, token1 := env.mintInvite(t, actor, office.ID, "due1@example.com", domain.RoleSalesperson, nil)
	due2, token2 := env.mintInvite(t, actor, office.ID, "due2@example.com", domain.RoleAssistant, nil)
	fresh, _ := env.mintInvite(t, actor, office.ID, "fresh@example.com", domain.RoleSalesperson, nil)

	backdateInvitation(t, env.store, due1.ID, token1)
	backdateInvitation(t, env.store, due2.ID, token2)

	n, err := env.invites.ExpireDue(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	for _, id := range []string{due1.ID, due2.ID} {
		got, err := env.store.Invitations().GetByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationExpired, got.Status)
	}
	got, err := env.store.Invitations().GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationPending, got.Status)

	t.Run("each expiry leaves an audit entry", func(t *testing.T) {
		entries, err := env.store.Audit().ListByTarget(ctx, due1.ID)
		require.NoError(t, err)
		var found bool
		for _, e := range entries {
			if e.Action == domain.AuditInvitationExpired {
				found = true
			}
		}
		require.True(t, found)
	})
}
