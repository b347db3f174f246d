package identity

import (
	"time"

	"authd/cmd/identity/ids"
)

// NewULID returns a new ULID (26-char string) used as the opaque user ID.
func NewULID(now time.Time) (string, error) {
	return ids.NewULID(now)
}
