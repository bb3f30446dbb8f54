package members_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keystackhq/keystack/pkg/membersdk"
)

func TestResendInvitation(t *testing.T) {
	baseURL, cleanup := setupMembersContainer(t)
	defer cleanup()

	client := membersdk.NewClient(baseURL)
	ctx := context.Background()
	admin, _ := bootstrapService(t, client)

	inv, err := admin.Invite(ctx, membersdk.InviteRequest{
		Email: "slow@example.com",
		Role:  "salesperson",
	})
	require.NoError(t, err)

	renewed, err := admin.Resend(ctx, inv.InvitationID)
	require.NoError(t, err)
	require.Equal(t, inv.InvitationID, renewed.InvitationID)
	require.NotEqual(t, inv.InviteToken, renewed.InviteToken, "Resend must rotate the token")

	t.Run("old token no longer redeems", func(t *testing.T) {
		_, err := client.Accept(ctx, membersdk.AcceptRequest{
			Token:    inv.InviteToken,
			Name:     "Slow",
			Password: "Member123!",
		})
		requireAPIError(t, err, http.StatusBadRequest, "invalid_token")
	})

	t.Run("fresh token redeems", func(t *testing.T) {
		accepted, err := client.Accept(ctx, membersdk.AcceptRequest{
			Token:    renewed.InviteToken,
			Name:     "Slow",
			Password: "Member123!",
		})
		require.NoError(t, err)
		require.NotEmpty(t, accepted.UserID)
	})

	t.Run("accepted invitation cannot be resent", func(t *testing.T) {
		_, err := admin.Resend(ctx, inv.InvitationID)
		requireAPIError(t, err, http.StatusBadRequest, "invalid_status")
	})

	t.Run("unknown invitation id", func(t *testing.T) {
		_, err := admin.Resend(ctx, "no-such-invitation")
		requireAPIError(t, err, http.StatusNotFound, "not_found")
	})
}

func TestRevokeInvitation(t *testing.T) {
	baseURL, cleanup := setupMembersContainer(t)
	defer cleanup()

	client := membersdk.NewClient(baseURL)
	ctx := context.Background()
	admin, _ := bootstrapService(t, client)

	inv, err := admin.Invite(ctx, membersdk.InviteRequest{
		Email: "regret@example.com",
		Role:  "assistant",
	})
	require.NoError(t, err)

	require.NoError(t, admin.Revoke(ctx, inv.InvitationID))

	t.Run("revoked token cannot be redeemed", func(t *testing.T) {
		_, err := client.Accept(ctx, membersdk.AcceptRequest{
			Token:    inv.InviteToken,
			Name:     "Regret",
			Password: "Member123!",
		})
		requireAPIError(t, err, http.StatusBadRequest, "invalid_status")
	})

	t.Run("revoking twice fails", func(t *testing.T) {
		err := admin.Revoke(ctx, inv.InvitationID)
		requireAPIError(t, err, http.StatusBadRequest, "invalid_status")
	})

	t.Run("email is free to invite again", func(t *testing.T) {
		_, err := admin.Invite(ctx, membersdk.InviteRequest{
			Email: "regret@example.com",
			Role:  "assistant",
		})
		require.NoError(t, err)
	})

	t.Run("lifecycle endpoints require authentication", func(t *testing.T) {
		err := client.Revoke(ctx, inv.InvitationID)
		requireAPIError(t, err, http.StatusUnauthorized, "")
	})
}
