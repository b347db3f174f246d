package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"authd/cmd/identity"
	"authd/cmd/internal/auth/session"
	"authd/cmd/security/password"
)

// maxUsernameLen bounds usernames to keep index keys and logs sane.
const maxUsernameLen = 64

// Service implements the authentication operations for authd.
type Service struct {
	dir      identity.Store
	sessions *session.Registry
	hasher   password.Config

	// hashSem bounds concurrent bcrypt work so a login burst cannot
	// occupy every scheduler thread.
	hashSem chan struct{}

	// dummyHash is verified against when login hits an unknown username,
	// so response timing does not reveal whether the account exists.
	dummyHash string
}

// NewService wires the directory, session registry and hasher together.
// maxParallelHashes <= 0 selects the default of 2×GOMAXPROCS.
func NewService(dir identity.Store, sessions *session.Registry, hasher password.Config, maxParallelHashes int) (*Service, error) {
	if dir == nil {
		return nil, fmt.Errorf("service: nil directory")
	}
	if sessions == nil {
		return nil, fmt.Errorf("service: nil session registry")
	}
	if maxParallelHashes <= 0 {
		maxParallelHashes = 2 * runtime.GOMAXPROCS(0)
	}

	dummy, err := hasher.Hash("authd-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("service: dummy hash: %w", err)
	}

	return &Service{
		dir:       dir,
		sessions:  sessions,
		hasher:    hasher,
		hashSem:   make(chan struct{}, maxParallelHashes),
		dummyHash: dummy,
	}, nil
}

// RegisterResult is the outcome of Register.
type RegisterResult struct {
	Status Status
	Token  string
	UserID string
}

// Register creates a new account and logs it straight in.
//
// The username is checked before the (expensive) hash; the directory's
// uniqueness constraint still backstops a create race, so two concurrent
// registrations of one name produce exactly one account and one session.
func (s *Service) Register(ctx context.Context, username, plaintext string) (RegisterResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLen {
		operations.WithLabelValues("register", string(StatusInvalidInput)).Inc()
		return RegisterResult{Status: StatusInvalidInput}, nil
	}
	if err := s.hasher.Validate(plaintext); err != nil {
		operations.WithLabelValues("register", string(StatusInvalidInput)).Inc()
		return RegisterResult{Status: StatusInvalidInput}, nil
	}

	_, err := s.dir.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		operations.WithLabelValues("register", string(StatusUserAlreadyExists)).Inc()
		return RegisterResult{Status: StatusUserAlreadyExists}, nil
	case identity.IsNotFound(err):
		// Free to create.
	default:
		return RegisterResult{}, err
	}

	hash, err := s.hash(ctx, plaintext)
	if err != nil {
		return RegisterResult{}, err
	}

	user, err := s.dir.CreateUser(ctx, identity.CreateUserInput{
		Username:     username,
		PasswordHash: hash,
		Now:          time.Now().UTC(),
	})
	if identity.IsConflict(err) {
		// Lost the race after the existence check; no session is issued.
		operations.WithLabelValues("register", string(StatusUserAlreadyExists)).Inc()
		return RegisterResult{Status: StatusUserAlreadyExists}, nil
	}
	if err != nil {
		return RegisterResult{}, err
	}

	sess, err := s.sessions.Issue(user.ID)
	if err != nil {
		return RegisterResult{}, err
	}

	operations.WithLabelValues("register", string(StatusSuccess)).Inc()
	return RegisterResult{Status: StatusSuccess, Token: sess.Token, UserID: user.ID}, nil
}

// LoginResult is the outcome of Login.
type LoginResult struct {
	Status Status
	Token  string
}

// Login authenticates a username/password pair and issues a fresh session.
//
// Malformed input, unknown username and wrong password all collapse into
// INVALID_USERNAME_OR_PASSWORD, and an unknown username still pays for one
// bcrypt verification, so neither the response nor its timing leaks which
// accounts exist.
func (s *Service) Login(ctx context.Context, username, plaintext string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || plaintext == "" {
		operations.WithLabelValues("login", string(StatusInvalidUsernameOrPassword)).Inc()
		return LoginResult{Status: StatusInvalidUsernameOrPassword}, nil
	}

	user, err := s.dir.GetUserByUsername(ctx, username)
	if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
		if err := s.verifyDummy(ctx, plaintext); err != nil {
			return LoginResult{}, err
		}
		operations.WithLabelValues("login", string(StatusInvalidUsernameOrPassword)).Inc()
		return LoginResult{Status: StatusInvalidUsernameOrPassword}, nil
	}
	if err != nil {
		return LoginResult{}, err
	}

	ok, err := s.verify(ctx, user.PasswordHash, plaintext)
	if err != nil {
		return LoginResult{}, err
	}
	if !ok {
		operations.WithLabelValues("login", string(StatusInvalidUsernameOrPassword)).Inc()
		return LoginResult{Status: StatusInvalidUsernameOrPassword}, nil
	}

	sess, err := s.sessions.Issue(user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	operations.WithLabelValues("login", string(StatusSuccessfulAuthentication)).Inc()
	return LoginResult{Status: StatusSuccessfulAuthentication, Token: sess.Token}, nil
}

// CheckResult is the outcome of CheckSession.
type CheckResult struct {
	Status Status
	UserID string
}

// CheckSession resolves a token to its owning user ID. The ID, not the
// username, is the principal downstream services should trust.
func (s *Service) CheckSession(ctx context.Context, token string) (CheckResult, error) {
	sess, err := s.sessions.Validate(token)
	if err != nil {
		operations.WithLabelValues("check", string(StatusInvalidSession)).Inc()
		return CheckResult{Status: StatusInvalidSession}, nil
	}

	operations.WithLabelValues("check", string(StatusSessionAuthenticated)).Inc()
	return CheckResult{Status: StatusSessionAuthenticated, UserID: sess.UserID}, nil
}

// LogoutResult is the outcome of Logout.
type LogoutResult struct {
	Status Status
}

// Logout revokes a single session. Revoking a token that is already dead
// reports INVALID_SESSION but changes nothing, so retries are harmless.
func (s *Service) Logout(ctx context.Context, token string) (LogoutResult, error) {
	err := s.sessions.Revoke(token)
	if err != nil {
		operations.WithLabelValues("logout", string(StatusInvalidSession)).Inc()
		return LogoutResult{Status: StatusInvalidSession}, nil
	}

	operations.WithLabelValues("logout", string(StatusLoggedOut)).Inc()
	return LogoutResult{Status: StatusLoggedOut}, nil
}

// ChangePasswordResult is the outcome of ChangePassword.
type ChangePasswordResult struct {
	Status Status
}

// ChangePassword replaces the caller's password. The caller is identified
// by a live session token. Existing sessions, this one included, stay live.
func (s *Service) ChangePassword(ctx context.Context, token, newPlaintext string) (ChangePasswordResult, error) {
	sess, err := s.sessions.Validate(token)
	if err != nil {
		operations.WithLabelValues("change_password", string(StatusInvalidSession)).Inc()
		return ChangePasswordResult{Status: StatusInvalidSession}, nil
	}
	if err := s.hasher.Validate(newPlaintext); err != nil {
		operations.WithLabelValues("change_password", string(StatusInvalidInput)).Inc()
		return ChangePasswordResult{Status: StatusInvalidInput}, nil
	}

	hash, err := s.hash(ctx, newPlaintext)
	if err != nil {
		return ChangePasswordResult{}, err
	}

	err = s.dir.UpdatePassword(ctx, sess.UserID, hash, time.Now().UTC())
	if identity.IsNotFound(err) {
		// Session outlived the user record; treat the session as dead.
		s.sessions.RevokeAll(sess.UserID)
		return ChangePasswordResult{Status: StatusInvalidSession}, nil
	}
	if err != nil {
		return ChangePasswordResult{}, err
	}

	operations.WithLabelValues("change_password", string(StatusUserUpdated)).Inc()
	return ChangePasswordResult{Status: StatusUserUpdated}, nil
}

// SessionInfo describes one live session without exposing its token.
type SessionInfo struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ListSessionsResult is the outcome of ListSessions.
type ListSessionsResult struct {
	Status   Status
	Sessions []SessionInfo
}

// ListSessions returns the caller's live sessions, identified by token.
func (s *Service) ListSessions(ctx context.Context, token string) (ListSessionsResult, error) {
	sess, err := s.sessions.Validate(token)
	if err != nil {
		return ListSessionsResult{Status: StatusInvalidSession}, nil
	}

	live := s.sessions.Sessions(sess.UserID)
	out := make([]SessionInfo, 0, len(live))
	for _, l := range live {
		out = append(out, SessionInfo{IssuedAt: l.IssuedAt, ExpiresAt: l.ExpiresAt})
	}

	return ListSessionsResult{Status: StatusSuccess, Sessions: out}, nil
}

// hash runs bcrypt under the semaphore.
func (s *Service) hash(ctx context.Context, plaintext string) (string, error) {
	if err := s.acquire(ctx); err != nil {
		return "", err
	}
	defer s.release()
	return s.hasher.Hash(plaintext)
}

// verify runs bcrypt comparison under the semaphore.
func (s *Service) verify(ctx context.Context, encodedHash, plaintext string) (bool, error) {
	if err := s.acquire(ctx); err != nil {
		return false, err
	}
	defer s.release()
	return s.hasher.Verify(encodedHash, plaintext), nil
}

// verifyDummy burns one bcrypt comparison for a nonexistent account.
func (s *Service) verifyDummy(ctx context.Context, plaintext string) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	_ = s.hasher.Verify(s.dummyHash, plaintext)
	return nil
}

func (s *Service) acquire(ctx context.Context) error {
	select {
	case s.hashSem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) release() { <-s.hashSem }
