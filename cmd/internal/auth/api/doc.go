// Package authapi exposes authd's operations over JSON/HTTP.
//
// The wire contract is the envelope {error, status, ...}: error is a bool,
// status one of the stable strings from the service package. Input/conflict
// and credential failures answer 400; a dead session token answers 200 with
// an error envelope, which callers treat as "re-authenticate". 500 is
// reserved for infrastructure failures.
package authapi
