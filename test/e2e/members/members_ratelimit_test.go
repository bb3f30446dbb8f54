package members_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keystackhq/keystack/pkg/membersdk"
)

// TestRateLimitAcceptEndpoint verifies the public accept endpoint is rate
// limited per source IP. Token redemption is the brute-force surface, so it
// carries the strict profile (5 req/min).
func TestRateLimitAcceptEndpoint(t *testing.T) {
	baseURL, cleanup := setupMembersContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := membersdk.NewClient(baseURL)
	ctx := context.Background()

	var lastErr error
	for i := range 6 {
		_, err := client.Accept(ctx, membersdk.AcceptRequest{
			Token:    "guess-attempt",
			Name:     "Guesser",
			Password: "Member123!",
		})
		require.Error(t, err)
		apiErr, ok := err.(*membersdk.APIError)
		require.True(t, ok)
		if i < 5 {
			require.Equal(t, http.StatusBadRequest, apiErr.StatusCode,
				"request %d should fail validation, not rate limiting", i+1)
		} else {
			lastErr = err
		}
	}

	apiErr, ok := lastErr.(*membersdk.APIError)
	require.True(t, ok)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode,
		"6th token guess should be rate limited")
}

// TestRateLimitBootstrapEndpoint verifies the one-time setup endpoint cannot
// be hammered with token guesses.
func TestRateLimitBootstrapEndpoint(t *testing.T) {
	baseURL, cleanup := setupMembersContainerWithDefaultRateLimits(t)
	defer cleanup()

	client := membersdk.NewClient(baseURL)
	ctx := context.Background()

	req := membersdk.BootstrapRequest{
		Token:      "wrong-token",
		OfficeName: officeName,
		Email:      adminEmail,
		Name:       adminName,
		Password:   adminPassword,
	}

	for i := range 5 {
		_, err := client.Bootstrap(ctx, req)
		apiErr, ok := err.(*membersdk.APIError)
		require.True(t, ok)
		require.Equal(t, http.StatusForbidden, apiErr.StatusCode,
			"request %d should fail the token check, not rate limiting", i+1)
	}

	_, err := client.Bootstrap(ctx, req)
	apiErr, ok := err.(*membersdk.APIError)
	require.True(t, ok)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}
