package members_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keystackhq/keystack/pkg/membersdk"
)

func TestHealthEndpoints(t *testing.T) {
	baseURL, cleanup := setupMembersContainer(t)
	defer cleanup()

	client := membersdk.NewClient(baseURL)
	ctx := context.Background()

	t.Run("livez", func(t *testing.T) {
		health, err := client.Livez(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", health.Status)
		require.NotEmpty(t, health.Uptime)
	})

	t.Run("readyz reports both data stores", func(t *testing.T) {
		health, err := client.Readyz(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", health.Status)
		require.NotNil(t, health.Checks)
		require.Equal(t, "ok", health.Checks.Database)
		require.Equal(t, "ok", health.Checks.Identity)
	})
}
