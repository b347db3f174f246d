package session

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestRegistry(t *testing.T, clk *fakeClock) *Registry {
	t.Helper()

	cfg := DefaultConfig()
	r, err := NewRegistry(cfg, WithClock(clk.Now))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r
}

func TestRegistryIssueAndValidate(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	r := newTestRegistry(t, clk)

	s, err := r.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if s.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if s.UserID != "user-1" {
		t.Fatalf("UserID = %q, want %q", s.UserID, "user-1")
	}
	if got, want := s.ExpiresAt, clk.Now().Add(6*time.Hour); !got.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", got, want)
	}

	got, err := r.Validate(s.Token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got.UserID != "user-1" {
		t.Fatalf("Validate UserID = %q, want %q", got.UserID, "user-1")
	}
}

func TestRegistryValidateUnknownToken(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newFakeClock())

	if _, err := r.Validate("deadbeef"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegistryExpiry(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	r := newTestRegistry(t, clk)

	s, err := r.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Just shy of the deadline the session is still valid.
	clk.Advance(6*time.Hour - time.Second)
	if _, err := r.Validate(s.Token); err != nil {
		t.Fatalf("Validate before expiry: %v", err)
	}

	// At the deadline the session is dead and dropped.
	clk.Advance(time.Second)
	if _, err := r.Validate(s.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}

	// The lazy drop means a second presentation is now unknown.
	if _, err := r.Validate(s.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after drop, got %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistryMultipleSessionsPerUser(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newFakeClock())

	s1, err := r.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue 1: %v", err)
	}
	s2, err := r.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue 2: %v", err)
	}
	if s1.Token == s2.Token {
		t.Fatalf("expected distinct tokens per login")
	}

	// Both validate independently.
	for _, tok := range []string{s1.Token, s2.Token} {
		if _, err := r.Validate(tok); err != nil {
			t.Fatalf("Validate(%q): %v", tok, err)
		}
	}

	// Revoking one leaves the other alone.
	if err := r.Revoke(s1.Token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := r.Validate(s1.Token); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected revoked token to be unknown, got %v", err)
	}
	if _, err := r.Validate(s2.Token); err != nil {
		t.Fatalf("sibling session must survive revocation: %v", err)
	}
}

func TestRegistryRevokeUnknown(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newFakeClock())

	if err := r.Revoke("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegistryRevokeAll(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newFakeClock())

	var own []string
	for i := 0; i < 3; i++ {
		s, err := r.Issue("user-1")
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		own = append(own, s.Token)
	}
	other, err := r.Issue("user-2")
	if err != nil {
		t.Fatalf("Issue other: %v", err)
	}

	if n := r.RevokeAll("user-1"); n != 3 {
		t.Fatalf("RevokeAll = %d, want 3", n)
	}
	for _, tok := range own {
		if _, err := r.Validate(tok); !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("expected dropped token, got %v", err)
		}
	}
	// Other users are untouched.
	if _, err := r.Validate(other.Token); err != nil {
		t.Fatalf("user-2 session must survive: %v", err)
	}

	// Idempotent.
	if n := r.RevokeAll("user-1"); n != 0 {
		t.Fatalf("second RevokeAll = %d, want 0", n)
	}
}

func TestRegistrySessionsListing(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	r := newTestRegistry(t, clk)

	if got := r.Sessions("user-1"); got != nil {
		t.Fatalf("expected nil for unknown user, got %v", got)
	}

	if _, err := r.Issue("user-1"); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	clk.Advance(3 * time.Hour)
	s2, err := r.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if got := r.Sessions("user-1"); len(got) != 2 {
		t.Fatalf("Sessions len = %d, want 2", len(got))
	}

	// s1 expires 3h before s2; listing filters it out without a lookup.
	clk.Advance(3 * time.Hour)
	got := r.Sessions("user-1")
	if len(got) != 1 {
		t.Fatalf("Sessions len = %d, want 1", len(got))
	}
	if got[0].Token != s2.Token {
		t.Fatalf("surviving token = %q, want %q", got[0].Token, s2.Token)
	}
}

func TestRegistrySweepReclaimsExpired(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	r := newTestRegistry(t, clk)

	for i := 0; i < 5; i++ {
		if _, err := r.Issue("user-1"); err != nil {
			t.Fatalf("Issue: %v", err)
		}
	}
	clk.Advance(3 * time.Hour)
	survivor, err := r.Issue("user-2")
	if err != nil {
		t.Fatalf("Issue survivor: %v", err)
	}

	// First batch is past TTL, survivor is not.
	clk.Advance(3*time.Hour + time.Second)
	r.sweep()

	if r.Len() != 1 {
		t.Fatalf("Len() after sweep = %d, want 1", r.Len())
	}
	if _, err := r.Validate(survivor.Token); err != nil {
		t.Fatalf("survivor must still validate: %v", err)
	}
}

func TestRegistrySweepSkipsRevokedTokens(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	r := newTestRegistry(t, clk)

	s, err := r.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if err := r.Revoke(s.Token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	// The heap still holds a record for the revoked token; sweeping past
	// its deadline must not disturb anything else.
	clk.Advance(7 * time.Hour)
	r.sweep()

	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistryConcurrentIssueValidate(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, newFakeClock())

	const n = 100
	var wg sync.WaitGroup
	tokens := make([]string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := r.Issue("user-1")
			if err != nil {
				t.Errorf("Issue: %v", err)
				return
			}
			tokens[i] = s.Token
			if _, err := r.Validate(s.Token); err != nil {
				t.Errorf("Validate: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if r.Len() != n {
		t.Fatalf("Len() = %d, want %d", r.Len(), n)
	}

	// All tokens distinct.
	seen := make(map[string]bool, n)
	for _, tok := range tokens {
		if seen[tok] {
			t.Fatalf("duplicate token issued: %q", tok)
		}
		seen[tok] = true
	}

	if n := r.RevokeAll("user-1"); n != 100 {
		t.Fatalf("RevokeAll = %d, want 100", n)
	}
	if r.Len() != 0 {
		t.Fatalf("Len() after RevokeAll = %d, want 0", r.Len())
	}
}

func TestRegistryValidateDoesNotExtendTTL(t *testing.T) {
	t.Parallel()

	clk := newFakeClock()
	r := newTestRegistry(t, clk)

	s, err := r.Issue("user-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Repeated validation close to the deadline must not push it out.
	clk.Advance(6*time.Hour - time.Minute)
	for i := 0; i < 3; i++ {
		if _, err := r.Validate(s.Token); err != nil {
			t.Fatalf("Validate %d: %v", i, err)
		}
	}
	clk.Advance(time.Minute)
	if _, err := r.Validate(s.Token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}
