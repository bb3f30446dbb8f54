package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// GenerateKey creates a fresh Ed25519 key pair.
func GenerateKey() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	return ed25519.GenerateKey(rand.Reader)
}

// LoadOrCreateKey reads a hex-encoded Ed25519 seed from path, generating and
// persisting one (0600) if the file does not exist. An empty path yields an
// ephemeral key pair, which means tokens do not survive a restart.
func LoadOrCreateKey(path string) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	if path == "" {
		return GenerateKey()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		seed, err := hex.DecodeString(strings.TrimSpace(string(data)))
		if err != nil || len(seed) != ed25519.SeedSize {
			return nil, nil, fmt.Errorf("jwtx: malformed key seed in %s", path)
		}
		priv := ed25519.NewKeyFromSeed(seed)
		return priv.Public().(ed25519.PublicKey), priv, nil

	case os.IsNotExist(err):
		pub, priv, err := GenerateKey()
		if err != nil {
			return nil, nil, err
		}
		seed := hex.EncodeToString(priv.Seed())
		if err := os.WriteFile(path, []byte(seed+"\n"), 0o600); err != nil {
			return nil, nil, fmt.Errorf("jwtx: write key seed: %w", err)
		}
		return pub, priv, nil

	default:
		return nil, nil, fmt.Errorf("jwtx: read key seed: %w", err)
	}
}
