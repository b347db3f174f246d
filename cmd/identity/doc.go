// Package identity is authd's user directory.
//
// It owns the User record, the Store port (find-by-username, create,
// password update) and its two implementations: Postgres for production
// and an in-memory store for tests and DB-less development runs.
//
// The package is intentionally dependency-light: it knows nothing about
// sessions, HTTP, or password hashing beyond storing the finished hash.
package identity
