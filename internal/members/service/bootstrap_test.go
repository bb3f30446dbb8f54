package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/keystackhq/keystack/internal/members/domain"
	"github.com/keystackhq/keystack/pkg/jwtx"
)

func newBootstrap(t *testing.T, env *testEnv, token string) (*BootstrapService, jwtx.Verifier) {
	t.Helper()
	pub, priv, err := jwtx.GenerateKey()
	require.NoError(t, err)
	return &BootstrapService{
		Store:       env.store,
		Identity:    env.ident,
		Audit:       env.audit,
		Memberships: env.memberships,
		Roles:       env.roles,
		Signer:      jwtx.NewSigner(priv, "members-test", time.Hour),
		Token:       token,
	}, jwtx.NewVerifier(pub, "members-test")
}

func TestBootstrapCreatesFirstAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc, verifier := newBootstrap(t, env, "deploy-secret")

	res, err := svc.Bootstrap(ctx, BootstrapParams{
		Token:      "deploy-secret",
		OfficeName: "Head Office",
		Email:      "Founder@Example.com",
		Name:       "Founder",
		Password:   "Secret123!",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.UserID)
	require.NotEmpty(t, res.OfficeID)
	require.NotEmpty(t, res.TeamID)

	t.Run("token authenticates as the new admin", func(t *testing.T) {
		claims, err := verifier.Verify(res.AccessToken)
		require.NoError(t, err)
		require.Equal(t, res.UserID, claims.Subject)
		require.Equal(t, string(domain.RolePlatformAdmin), claims.Role)
		require.Equal(t, res.OfficeID, claims.OfficeID)
	})

	t.Run("account passes verification", func(t *testing.T) {
		require.NoError(t, env.verify.Verify(ctx, res.UserID, res.UserID))
	})

	t.Run("email was normalized", func(t *testing.T) {
		prof, err := env.store.Profiles().GetByEmail(ctx, "founder@example.com")
		require.NoError(t, err)
		require.Equal(t, res.UserID, prof.ID)
	})

	t.Run("admin grant is active", func(t *testing.T) {
		has, err := env.roles.HasActive(ctx, res.UserID, domain.RolePlatformAdmin)
		require.NoError(t, err)
		require.True(t, has)
	})

	t.Run("second bootstrap is refused", func(t *testing.T) {
		_, err := svc.Bootstrap(ctx, BootstrapParams{
			Token:      "deploy-secret",
			OfficeName: "Another",
			Email:      "other@example.com",
			Name:       "Other",
			Password:   "Secret123!",
		})
		require.ErrorIs(t, err, ErrAlreadyBootstrapped)
	})
}

func TestBootstrapGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("wrong shared token", func(t *testing.T) {
		svc, _ := newBootstrap(t, env, "deploy-secret")
		_, err := svc.Bootstrap(ctx, BootstrapParams{Token: "guess", Email: "a@example.com", Password: "pw123456"})
		require.ErrorIs(t, err, ErrBootstrapUnavailable)
	})

	t.Run("empty configured token disables bootstrap outright", func(t *testing.T) {
		svc, _ := newBootstrap(t, env, "")
		_, err := svc.Bootstrap(ctx, BootstrapParams{Token: "", Email: "a@example.com", Password: "pw123456"})
		require.ErrorIs(t, err, ErrBootstrapUnavailable)
	})

	t.Run("malformed email", func(t *testing.T) {
		svc, _ := newBootstrap(t, env, "deploy-secret")
		_, err := svc.Bootstrap(ctx, BootstrapParams{Token: "deploy-secret", Email: "nope", Password: "pw123456"})
		require.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("existing profile blocks bootstrap", func(t *testing.T) {
		office := env.seedOffice(t, "Main Office")
		env.seedAdmin(t, office.ID, "admin@example.com")

		svc, _ := newBootstrap(t, env, "deploy-secret")
		_, err := svc.Bootstrap(ctx, BootstrapParams{Token: "deploy-secret", Email: "new@example.com", Password: "pw123456"})
		require.ErrorIs(t, err, ErrAlreadyBootstrapped)
	})
}
