// Package password provides password hashing and verification for authd.
//
// It wraps bcrypt behind a small Config surface:
//   - Tunable work factor (via environment variables), default cost 10.
//   - Password policy validation (length bounds, bcrypt's 72-byte input cap).
//   - Verify treats stored hashes as untrusted input: a malformed or
//     truncated hash yields "no match", never a panic or an error the
//     login path would have to special-case.
package password
