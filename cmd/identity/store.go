package identity

import (
	"context"
	"time"
)

// User is authd's canonical security principal.
//
// ID is the opaque stable identifier downstream services receive as the
// authenticated principal; usernames are display/lookup keys and must never
// be used as cross-service identity.
type User struct {
	ID           string
	Username     string
	UsernameNorm string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUserInput describes a registration request. The password arrives
// already hashed; this package never sees plaintext credentials.
type CreateUserInput struct {
	Username     string
	PasswordHash string
	Now          time.Time
}

// Store is the user-directory persistence boundary.
//
// "User not found" is a normal control-flow result and is reported via
// ErrNotFound, never a panic or an infrastructure error. Concurrent
// CreateUser calls for the same (normalized) username must resolve to
// exactly one winner; the loser receives a ConflictError.
type Store interface {
	// GetUserByUsername loads a user by username (case-insensitive).
	GetUserByUsername(ctx context.Context, username string) (User, error)

	// GetUserByID loads a user by its opaque ID.
	GetUserByID(ctx context.Context, id string) (User, error)

	// CreateUser creates a new user record.
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)

	// UpdatePassword replaces the stored password hash for a user.
	UpdatePassword(ctx context.Context, id string, passwordHash string, now time.Time) error
}
