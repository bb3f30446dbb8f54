package jwtx_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/keystackhq/keystack/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	t.Parallel()

	pub, priv, err := jwtx.GenerateKey()
	require.NoError(t, err)

	signer := jwtx.NewSigner(priv, "members-test", time.Minute)
	verifier := jwtx.NewVerifier(pub, "members-test")

	raw, err := signer.Sign("user-1", "office_manager", "office-1")
	require.NoError(t, err)

	claims, err := verifier.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "office_manager", claims.Role)
	require.Equal(t, "office-1", claims.OfficeID)
	require.NoError(t, claims.ValidateExpiry())
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	t.Parallel()

	_, priv, err := jwtx.GenerateKey()
	require.NoError(t, err)
	otherPub, _, err := jwtx.GenerateKey()
	require.NoError(t, err)

	signer := jwtx.NewSigner(priv, "members-test", time.Minute)
	verifier := jwtx.NewVerifier(otherPub, "members-test")

	raw, err := signer.Sign("user-1", "assistant", "")
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrTokenInvalid)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	pub, priv, err := jwtx.GenerateKey()
	require.NoError(t, err)

	signer := jwtx.NewSigner(priv, "someone-else", time.Minute)
	verifier := jwtx.NewVerifier(pub, "members-test")

	raw, err := signer.Sign("user-1", "assistant", "")
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrTokenInvalid)
}

func TestLoadOrCreateKeyRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "signing.key")

	pub1, _, err := jwtx.LoadOrCreateKey(path)
	require.NoError(t, err)

	pub2, _, err := jwtx.LoadOrCreateKey(path)
	require.NoError(t, err)
	require.Equal(t, pub1, pub2, "second load must reuse the persisted seed")
}
