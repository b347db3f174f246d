package token

import (
	"crypto/rand"
	"encoding/hex"
)

const (
	// MinBytes is the smallest entropy size accepted for session tokens
	// (256 bits).
	MinBytes = 32

	// MaxBytes bounds token size so handlers never echo pathologically large
	// strings back to clients.
	MaxBytes = 64

	// DefaultBytes is the entropy size used when no override is configured.
	DefaultBytes = 32
)

// NewHex returns a cryptographically random token rendered as lowercase hex.
// The output length is always 2*nBytes characters. Sizes outside
// [MinBytes..MaxBytes] are rejected so a misconfigured caller cannot weaken
// token entropy silently.
func NewHex(nBytes int) (string, error) {
	if nBytes < MinBytes || nBytes > MaxBytes {
		return "", ErrTokenSize
	}

	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
