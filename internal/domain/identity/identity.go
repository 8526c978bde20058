// Package identity canonicalizes free-text club names so the same club
// referenced by different sources maps to one key.
package identity

import "strings"

// Normalize returns the canonical key for a raw club name: leading and
// trailing whitespace stripped, then lower-cased. It is idempotent and the
// empty string is a valid (degenerate) key.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
