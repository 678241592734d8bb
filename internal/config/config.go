package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration. It is loaded once at startup
// and treated as immutable for the lifetime of the process.
type Config struct {
	ServerPort   int
	DatabasePath string

	// Token settings for issuing and validating JWTs.
	TokenSecret []byte
	TokenTTL    time.Duration

	// Header names used by the authentication and authorization flows.
	TokenHeaderName   string
	TokenHeaderPrefix string
	RoleHeaderName    string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value %q: %w", portStr, err)
	}

	ttlStr := getEnv("TOKEN_TTL", "24h")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL value %q: %w", ttlStr, err)
	}

	secret := os.Getenv("TOKEN_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET must be set")
	}

	return &Config{
		ServerPort:        port,
		DatabasePath:      getEnv("DATABASE_PATH", "./users.db"),
		TokenSecret:       []byte(secret),
		TokenTTL:          ttl,
		TokenHeaderName:   getEnv("TOKEN_HEADER_NAME", "Authorization"),
		TokenHeaderPrefix: getEnv("TOKEN_HEADER_PREFIX", "Bearer"),
		RoleHeaderName:    getEnv("ROLE_HEADER_NAME", "LR-Type"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
