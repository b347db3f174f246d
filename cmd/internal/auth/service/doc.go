// Package service implements authd's authentication operations.
//
// It orchestrates the user directory, the password hasher, and the session
// registry behind Register, Login, CheckSession, Logout, ChangePassword and
// ListSessions, and owns the stable status strings the transport surfaces.
//
// Operations separate outcome from failure: an (Result, nil) return carries
// a status the caller maps to a response, a non-nil error means
// infrastructure broke (directory unreachable, hashing failed) and the
// transport answers 500.
package service
