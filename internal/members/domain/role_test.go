package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleHierarchy(t *testing.T) {
	t.Run("invitable roles are every strictly lower rank, highest first", func(t *testing.T) {
		cases := []struct {
			role Role
			want []Role
		}{
			{RolePlatformAdmin, []Role{RoleOfficeManager, RoleTeamLeader, RoleSalesperson, RoleAssistant}},
			{RoleOfficeManager, []Role{RoleTeamLeader, RoleSalesperson, RoleAssistant}},
			{RoleTeamLeader, []Role{RoleSalesperson, RoleAssistant}},
			{RoleSalesperson, []Role{RoleAssistant}},
			{RoleAssistant, []Role{}},
		}
		for _, tc := range cases {
			require.Equal(t, tc.want, InvitableRoles(tc.role), "role %s", tc.role)
		}
	})

	t.Run("outranks is strict", func(t *testing.T) {
		require.True(t, RolePlatformAdmin.Outranks(RoleOfficeManager))
		require.False(t, RoleOfficeManager.Outranks(RolePlatformAdmin))
		require.False(t, RoleTeamLeader.Outranks(RoleTeamLeader))
	})

	t.Run("invalid roles can neither invite nor be invited", func(t *testing.T) {
		require.False(t, Role("superuser").CanInvite(RoleAssistant))
		require.False(t, RolePlatformAdmin.CanInvite(Role("superuser")))
	})

	t.Run("parse accepts only known roles", func(t *testing.T) {
		r, err := ParseRole("team_leader")
		require.NoError(t, err)
		require.Equal(t, RoleTeamLeader, r)

		_, err = ParseRole("superuser")
		require.Error(t, err)
	})

	t.Run("team leaders and above administer teams they join", func(t *testing.T) {
		require.Equal(t, AccessAdmin, RolePlatformAdmin.AccessLevel())
		require.Equal(t, AccessAdmin, RoleTeamLeader.AccessLevel())
		require.Equal(t, AccessEdit, RoleSalesperson.AccessLevel())
		require.Equal(t, AccessEdit, RoleAssistant.AccessLevel())
	})
}
