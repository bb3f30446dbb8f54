package members_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/keystackhq/keystack/pkg/membersdk"
)

/*
 * Common constants and helper functions for members service end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "keystack-members-test:latest"

	bootstrapToken = "test-bootstrap-token-12345"
	adminEmail     = "admin@example.com"
	adminName      = "Administrator"
	adminPassword  = "Admin123!"
	officeName     = "Head Office"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after they complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Members Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Members Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/members/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupMembersContainer starts the members service in a container and returns
// the base URL. Rate limits are relaxed so rapid test requests do not trip
// the production defaults.
func setupMembersContainer(t *testing.T) (string, func()) {
	return startContainer(t, map[string]string{
		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	})
}

// setupMembersContainerWithDefaultRateLimits starts the service with
// production rate limits. Only the rate limiting tests use this.
func setupMembersContainerWithDefaultRateLimits(t *testing.T) (string, func()) {
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) (string, func()) {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"BOOTSTRAP_TOKEN":                bootstrapToken,
		"MEMBERS_DATABASE_FILE":          "/data/members.db",
		"MEMBERS_IDENTITY_DATABASE_FILE": "/data/identity.db",
		"MEMBERS_JWT_KEY_FILE":           "/data/jwt.key",
		"MEMBERS_ISSUER":                 "keystack-members",
		"ENV":                            "test",
		"LOG_LEVEL":                      "info",
		"LOG_FORMAT":                     "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// bootstrapService performs the one-time setup and returns an authenticated
// admin client plus the bootstrap response.
func bootstrapService(t *testing.T, client *membersdk.Client) (*membersdk.Client, membersdk.BootstrapResponse) {
	t.Helper()

	resp, err := client.Bootstrap(context.Background(), membersdk.BootstrapRequest{
		Token:      bootstrapToken,
		OfficeName: officeName,
		Email:      adminEmail,
		Name:       adminName,
		Password:   adminPassword,
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.NotEmpty(t, resp.UserID, "Admin user ID should not be empty")
	require.NotEmpty(t, resp.AccessToken, "Access token should not be empty")

	return client.WithToken(resp.AccessToken), resp
}

// inviteAndAccept runs the whole happy path for one member and returns the
// accept response.
func inviteAndAccept(t *testing.T, admin, public *membersdk.Client, email, role, name string) membersdk.AcceptResponse {
	t.Helper()
	ctx := context.Background()

	inv, err := admin.Invite(ctx, membersdk.InviteRequest{Email: email, Role: role})
	require.NoError(t, err, "Invite should succeed")
	require.NotEmpty(t, inv.InviteToken, "Invite token should be returned")

	accepted, err := public.Accept(ctx, membersdk.AcceptRequest{
		Token:    inv.InviteToken,
		Name:     name,
		Password: "Member123!",
	})
	require.NoError(t, err, "Accept should succeed")
	require.NotEmpty(t, accepted.UserID)
	require.Empty(t, accepted.Warnings, "Healthy accept should carry no warnings")

	return accepted
}

// requireAPIError asserts err is an APIError with the given status and code.
// An empty code checks the status only (401 responses carry no JSON body).
func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*membersdk.APIError)
	require.True(t, ok, "expected *membersdk.APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.StatusCode)
	if code != "" {
		require.Equal(t, code, apiErr.Code)
	}
}
