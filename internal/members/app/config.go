package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer         string // Required: issuer claim for tokens
	BootstrapToken string // Optional: token required to perform bootstrap

	JWTKeyPath           string        // Optional: path to the Ed25519 seed file (empty = ephemeral key)
	DatabaseFile         string        // Optional: path to the relational SQLite file (default: ./members.db)
	IdentityDatabaseFile string        // Optional: path to the credential SQLite file (default: ./identity.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 15m)
	InvitationTTL        time.Duration // Invitation lifetime (default: 168h)
	AccessTokenTTL       time.Duration // Bearer token lifetime (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("MEMBERS_ISSUER", "keystack-members"),
		BootstrapToken:       os.Getenv("BOOTSTRAP_TOKEN"),
		JWTKeyPath:           os.Getenv("MEMBERS_JWT_KEY_FILE"),
		DatabaseFile:         getEnvOrDefault("MEMBERS_DATABASE_FILE", "members.db"),
		IdentityDatabaseFile: getEnvOrDefault("MEMBERS_IDENTITY_DATABASE_FILE", "identity.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),
		InvitationTTL:        getEnvDurationOrDefault("INVITATION_TTL", 7*24*time.Hour),
		AccessTokenTTL:       getEnvDurationOrDefault("ACCESS_TOKEN_TTL", time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer values are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
