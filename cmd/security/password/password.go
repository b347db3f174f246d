package password

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// Hash hashes a password using bcrypt and returns the encoded hash string
// ($2a$<cost>$<salt+digest>). The salt is generated per call, so hashing the
// same password twice yields different encodings.
func (c Config) Hash(password string) (string, error) {
	if err := c.Validate(password); err != nil {
		return "", err
	}

	cost := c.Cost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", ErrInvalidCost
	}

	enc, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(enc), nil
}

// Verify reports whether password matches the given encoded hash.
// The stored hash is untrusted input: malformed, truncated, or
// foreign-format hashes verify as false rather than erroring, so a
// corrupted directory record degrades to a failed login, not a 500.
func (c Config) Verify(encodedHash, password string) bool {
	if encodedHash == "" || password == "" {
		return false
	}
	// bcrypt.CompareHashAndPassword performs the salted recomputation and a
	// constant-time digest comparison internally.
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}

// Validate checks password policy. It does not mutate input.
func (c Config) Validate(password string) error {
	if utf8.RuneCountInString(password) < c.Policy.MinLength {
		return ErrPasswordTooShort
	}

	maxBytes := c.Policy.MaxBytes
	if maxBytes <= 0 || maxBytes > maxPasswordBytes {
		maxBytes = maxPasswordBytes
	}
	if len(password) > maxBytes {
		return ErrPasswordTooLong
	}

	return nil
}
