package session

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"authd/cmd/security/token"
)

// Session is a live entry in the registry.
type Session struct {
	Token     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Active reports whether the session is live at the given instant.
func (s Session) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

type entry struct {
	token     string
	userID    string
	issuedAt  time.Time
	expiresAt time.Time
}

// expiryItem is a heap record pointing at a token. Records are never
// updated in place: revocation leaves a stale record behind, and the
// sweep discards records whose token no longer resolves. Staleness is
// bounded by the TTL, so the heap stays proportional to issue volume
// within one TTL window.
type expiryItem struct {
	token     string
	expiresAt time.Time
}

type expiryHeap []expiryItem

func (h expiryHeap) Len() int           { return len(h) }
func (h expiryHeap) Less(i, j int) bool { return h[i].expiresAt.Before(h[j].expiresAt) }
func (h expiryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *expiryHeap) Push(x any)        { *h = append(*h, x.(expiryItem)) }
func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Registry is the authoritative in-memory session store.
//
// Two indexes are kept in lockstep under one mutex: token -> entry for O(1)
// validation, and user -> token set for O(sessions-of-user) revocation.
// Every mutation maintains both; they can never disagree.
type Registry struct {
	cfg   Config
	clock func() time.Time

	mu      sync.RWMutex
	byToken map[string]entry
	byUser  map[string]map[string]struct{}
	expiry  expiryHeap
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock overrides the registry's time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.clock = now }
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config, opts ...Option) (*Registry, error) {
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("%w: non-positive TTL", ErrConfig)
	}
	if cfg.SweepInterval <= 0 {
		return nil, fmt.Errorf("%w: non-positive sweep interval", ErrConfig)
	}
	if cfg.TokenBytes < token.MinBytes || cfg.TokenBytes > token.MaxBytes {
		return nil, fmt.Errorf("%w: token bytes out of range", ErrConfig)
	}

	r := &Registry{
		cfg:     cfg,
		clock:   func() time.Time { return time.Now().UTC() },
		byToken: make(map[string]entry),
		byUser:  make(map[string]map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Issue mints a new session for userID and returns it. Each call creates an
// independent session; existing sessions for the user are untouched.
func (r *Registry) Issue(userID string) (Session, error) {
	tok, err := token.NewHex(r.cfg.TokenBytes)
	if err != nil {
		return Session{}, err
	}

	now := r.clock()
	e := entry{
		token:     tok,
		userID:    userID,
		issuedAt:  now,
		expiresAt: now.Add(r.cfg.TTL),
	}

	r.mu.Lock()
	r.byToken[tok] = e
	set, ok := r.byUser[userID]
	if !ok {
		set = make(map[string]struct{})
		r.byUser[userID] = set
	}
	set[tok] = struct{}{}
	heap.Push(&r.expiry, expiryItem{token: tok, expiresAt: e.expiresAt})
	live := len(r.byToken)
	r.mu.Unlock()

	sessionsIssued.Inc()
	sessionsLive.Set(float64(live))

	return sessionOf(e), nil
}

// Validate resolves a token to its session.
//
// Unknown tokens return ErrSessionNotFound. Expired tokens return
// ErrSessionExpired and are dropped on the spot, so an expired token can
// never validate twice.
func (r *Registry) Validate(tok string) (Session, error) {
	now := r.clock()

	r.mu.RLock()
	e, ok := r.byToken[tok]
	r.mu.RUnlock()

	if !ok {
		validations.WithLabelValues("not_found").Inc()
		return Session{}, ErrSessionNotFound
	}
	if !e.expiresAt.After(now) {
		r.mu.Lock()
		r.dropLocked(tok)
		live := len(r.byToken)
		r.mu.Unlock()

		sessionsExpired.Inc()
		sessionsLive.Set(float64(live))
		validations.WithLabelValues("expired").Inc()
		return Session{}, ErrSessionExpired
	}

	validations.WithLabelValues("ok").Inc()
	return sessionOf(e), nil
}

// Revoke removes a single session. Expired and unknown tokens both report
// ErrSessionNotFound; revocation of a live token always succeeds.
func (r *Registry) Revoke(tok string) error {
	now := r.clock()

	r.mu.Lock()
	e, ok := r.byToken[tok]
	if !ok {
		r.mu.Unlock()
		return ErrSessionNotFound
	}
	r.dropLocked(tok)
	live := len(r.byToken)
	r.mu.Unlock()

	sessionsLive.Set(float64(live))
	if !e.expiresAt.After(now) {
		sessionsExpired.Inc()
		return ErrSessionNotFound
	}
	sessionsRevoked.Inc()
	return nil
}

// RevokeAll removes every session belonging to userID and returns how many
// live sessions were dropped.
func (r *Registry) RevokeAll(userID string) int {
	now := r.clock()

	r.mu.Lock()
	var dropped int
	for tok := range r.byUser[userID] {
		if e, ok := r.byToken[tok]; ok && e.expiresAt.After(now) {
			dropped++
		}
		r.dropLocked(tok)
	}
	live := len(r.byToken)
	r.mu.Unlock()

	sessionsLive.Set(float64(live))
	sessionsRevoked.Add(float64(dropped))
	return dropped
}

// Sessions returns the user's live sessions in no particular order.
// Expired entries are filtered out but left for the sweep to reclaim.
func (r *Registry) Sessions(userID string) []Session {
	now := r.clock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.byUser[userID]
	if len(set) == 0 {
		return nil
	}
	out := make([]Session, 0, len(set))
	for tok := range set {
		if e, ok := r.byToken[tok]; ok && e.expiresAt.After(now) {
			out = append(out, sessionOf(e))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Len reports the number of stored sessions, expired-but-unswept included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byToken)
}

// Start runs the periodic sweep until ctx is cancelled. It blocks; run it
// on its own goroutine.
func (r *Registry) Start(ctx context.Context) {
	t := time.NewTicker(r.cfg.SweepInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.sweep()
		}
	}
}

// sweep pops due heap records and reclaims the entries they still point at.
// Records for revoked or lazily-dropped tokens no longer resolve and are
// simply discarded.
func (r *Registry) sweep() {
	now := r.clock()

	r.mu.Lock()
	var expired int
	for len(r.expiry) > 0 && !r.expiry[0].expiresAt.After(now) {
		it := heap.Pop(&r.expiry).(expiryItem)
		if e, ok := r.byToken[it.token]; ok && e.expiresAt.Equal(it.expiresAt) {
			r.dropLocked(it.token)
			expired++
		}
	}
	live := len(r.byToken)
	r.mu.Unlock()

	if expired > 0 {
		sessionsExpired.Add(float64(expired))
	}
	sessionsLive.Set(float64(live))
}

// dropLocked removes tok from both indexes. Caller holds r.mu.
func (r *Registry) dropLocked(tok string) {
	e, ok := r.byToken[tok]
	if !ok {
		return
	}
	delete(r.byToken, tok)
	if set, ok := r.byUser[e.userID]; ok {
		delete(set, tok)
		if len(set) == 0 {
			delete(r.byUser, e.userID)
		}
	}
}

func sessionOf(e entry) Session {
	return Session{
		Token:     e.token,
		UserID:    e.userID,
		IssuedAt:  e.issuedAt,
		ExpiresAt: e.expiresAt,
	}
}
