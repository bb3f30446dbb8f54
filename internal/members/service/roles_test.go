package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keystackhq/keystack/internal/members/domain"
)

func TestGrantRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	office := env.seedOffice(t, "Main Office")
	userID := env.seedMember(t, office.ID, "grantee@example.com")

	require.NoError(t, env.roles.Grant(ctx, "granter", userID, domain.RoleSalesperson))

	t.Run("granting again is a no-op", func(t *testing.T) {
		require.NoError(t, env.roles.Grant(ctx, "granter", userID, domain.RoleSalesperson))

		grants, err := env.store.RoleGrants().ListActiveByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, grants, 1)
		require.Equal(t, "granter", grants[0].GrantedBy)
	})

	t.Run("a second role gets its own grant", func(t *testing.T) {
		require.NoError(t, env.roles.Grant(ctx, "granter", userID, domain.RoleTeamLeader))

		grants, err := env.store.RoleGrants().ListActiveByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, grants, 2)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		require.ErrorIs(t, env.roles.Grant(ctx, "granter", userID, domain.Role("superuser")), ErrInvalidRole)
	})
}

func TestRevokeKeepsHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	office := env.seedOffice(t, "Main Office")
	userID := env.seedMember(t, office.ID, "history@example.com")

	require.NoError(t, env.roles.Grant(ctx, "granter", userID, domain.RoleSalesperson))
	grants, err := env.store.RoleGrants().ListActiveByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, grants, 1)

	require.NoError(t, env.roles.Revoke(ctx, "actor", grants[0]))

	has, err := env.roles.HasActive(ctx, userID, domain.RoleSalesperson)
	require.NoError(t, err)
	require.False(t, has)

	t.Run("re-grant writes a new row", func(t *testing.T) {
		require.NoError(t, env.roles.Grant(ctx, "granter", userID, domain.RoleSalesperson))
		active, err := env.store.RoleGrants().ListActiveByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, active, 1)
		require.NotEqual(t, grants[0].ID, active[0].ID)
	})
}

func TestLastPlatformAdminGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	office := env.seedOffice(t, "Main Office")
	only := env.seedAdmin(t, office.ID, "only@example.com")

	grants, err := env.store.RoleGrants().ListActiveByUser(ctx, only.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)

	t.Run("the only admin cannot be revoked", func(t *testing.T) {
		require.ErrorIs(t, env.roles.Revoke(ctx, "actor", grants[0]), ErrLastPlatformAdmin)

		has, err := env.roles.HasActive(ctx, only.ID, domain.RolePlatformAdmin)
		require.NoError(t, err)
		require.True(t, has)
	})

	t.Run("a second admin unblocks revocation", func(t *testing.T) {
		env.seedAdmin(t, office.ID, "second@example.com")

		require.NoError(t, env.roles.Revoke(ctx, "actor", grants[0]))
		has, err := env.roles.HasActive(ctx, only.ID, domain.RolePlatformAdmin)
		require.NoError(t, err)
		require.False(t, has)
	})

	t.Run("the guard now protects the remaining admin", func(t *testing.T) {
		second, err := env.store.Profiles().GetByEmail(ctx, "second@example.com")
		require.NoError(t, err)
		require.ErrorIs(t, env.roles.EnsurePlatformAdminRemains(ctx, second.ID), ErrLastPlatformAdmin)
	})
}
