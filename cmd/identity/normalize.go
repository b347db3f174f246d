package identity

import "strings"

// NormalizeUsername performs case-insensitive canonicalization for the
// uniqueness constraint. The display form entered at registration is kept
// verbatim on the User record; only the normalized form is unique.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
