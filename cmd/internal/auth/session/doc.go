// Package session implements authd's in-memory session registry.
//
// Sessions are opaque random tokens bound to a user ID for a fixed TTL.
// The registry is process-local and authoritative: a token is valid exactly
// when the registry says so, and a restart invalidates every session.
// A user may hold any number of concurrent sessions (one per device/tab);
// revoking one never touches the others.
//
// Expired sessions are dropped lazily on lookup and eagerly by a periodic
// sweep, so the registry's footprint stays proportional to live sessions.
package session
