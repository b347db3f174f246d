package password

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is bcrypt's hard input limit. Bytes beyond this point are
// silently ignored by the algorithm, so we reject such passwords outright
// instead of hashing a truncation the user never chose.
const maxPasswordBytes = 72

// Policy controls password validation.
type Policy struct {
	// MinLength is measured in runes; the baseline only requires non-empty
	// input, stricter minimums are an env decision.
	MinLength int
	// MaxBytes is measured in bytes because that is the unit bcrypt caps at.
	MaxBytes int
}

// Config is the single configuration surface for this package.
type Config struct {
	// Cost is the bcrypt work factor (log2 of the iteration count).
	Cost   int
	Policy Policy
}

// DefaultConfig returns the baseline configuration: bcrypt cost 10 and a
// policy that accepts any non-empty password up to bcrypt's input cap.
func DefaultConfig() Config {
	return Config{
		Cost: 10,
		Policy: Policy{
			MinLength: 1,
			MaxBytes:  maxPasswordBytes,
		},
	}
}

// FromEnv loads config from environment variables.
//
// Env surface:
//   - AUTHD_BCRYPT_COST
//   - AUTHD_PASSWORD_MIN_LEN
//   - AUTHD_PASSWORD_MAX_BYTES
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("AUTHD_BCRYPT_COST"); ok {
		n, err := atoiBounded(v, bcrypt.MinCost, bcrypt.MaxCost)
		if err != nil {
			return Config{}, fmt.Errorf("AUTHD_BCRYPT_COST: %w", err)
		}
		cfg.Cost = n
	}

	if v, ok := os.LookupEnv("AUTHD_PASSWORD_MIN_LEN"); ok {
		n, err := atoiBounded(v, 1, maxPasswordBytes)
		if err != nil {
			return Config{}, fmt.Errorf("AUTHD_PASSWORD_MIN_LEN: %w", err)
		}
		cfg.Policy.MinLength = n
	}

	if v, ok := os.LookupEnv("AUTHD_PASSWORD_MAX_BYTES"); ok {
		n, err := atoiBounded(v, 1, maxPasswordBytes)
		if err != nil {
			return Config{}, fmt.Errorf("AUTHD_PASSWORD_MAX_BYTES: %w", err)
		}
		cfg.Policy.MaxBytes = n
	}

	// Final sanity.
	if cfg.Policy.MinLength > cfg.Policy.MaxBytes {
		return Config{}, fmt.Errorf(
			"password policy invalid: min_len(%d) > max_bytes(%d)",
			cfg.Policy.MinLength,
			cfg.Policy.MaxBytes,
		)
	}

	return cfg, nil
}

func atoiBounded(s string, minVal, maxVal int) (int, error) {
	s = strings.TrimSpace(s)
	i64, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}

	i := int(i64)
	if i < minVal || i > maxVal {
		return 0, fmt.Errorf("out of range [%d..%d]", minVal, maxVal)
	}
	return i, nil
}
