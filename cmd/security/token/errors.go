package token

import "errors"

// Public, stable errors for callers.
var (
	// ErrTokenSize is returned when a requested token size falls outside the
	// [MinBytes..MaxBytes] policy window.
	ErrTokenSize = errors.New("token size out of bounds")
)
