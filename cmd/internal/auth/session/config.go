package session

import (
	"os"
	"strconv"
	"time"

	"authd/cmd/security/token"
)

// Config defines all runtime configuration for the session registry.
//
// It controls session TTL, the background sweep cadence, and token entropy.
// It is intentionally explicit and environment-driven so deployments can
// tune these without code changes.
type Config struct {
	// TTL defines the fixed lifetime of a session. Validation never
	// extends it; a session issued at T dies at T+TTL.
	TTL time.Duration

	// SweepInterval defines how often the background sweep reclaims
	// expired entries that no lookup has touched.
	SweepInterval time.Duration

	// TokenBytes defines the number of random bytes used to generate
	// opaque session tokens (hex-encoded on the wire).
	TokenBytes int
}

// DefaultConfig returns the default session configuration: 6-hour sessions,
// minutely sweep, 32 bytes of token entropy.
func DefaultConfig() Config {
	return Config{
		TTL:           6 * time.Hour,
		SweepInterval: time.Minute,
		TokenBytes:    token.DefaultBytes,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Optional (durations must be valid Go duration strings):
//   - AUTHD_SESSION_TTL
//   - AUTHD_SESSION_SWEEP_INTERVAL
//   - AUTHD_SESSION_TOKEN_BYTES
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("AUTHD_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TTL = d
	}

	if v := os.Getenv("AUTHD_SESSION_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.SweepInterval = d
	}

	if v := os.Getenv("AUTHD_SESSION_TOKEN_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < token.MinBytes || n > token.MaxBytes {
			return Config{}, ErrConfig
		}
		cfg.TokenBytes = n
	}

	return cfg, nil
}
