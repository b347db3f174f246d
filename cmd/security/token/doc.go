// Package token generates the opaque session tokens handed to clients.
//
// Design goals:
//   - Tokens come from crypto/rand only; no derivable structure, no claims.
//   - At least 256 bits of entropy per token, rendered as fixed-length hex so
//     downstream services can treat them as plain strings.
package token
