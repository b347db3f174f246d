package session

import "errors"

var (
	// ErrSessionNotFound is returned when a token does not match any live session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when the token matched a session whose
	// TTL has elapsed. The entry is removed as a side effect.
	ErrSessionExpired = errors.New("session expired")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
