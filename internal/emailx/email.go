// Package emailx provides email normalization and syntax checking.
// All store keys and cross-source comparisons in this project use the
// normalized form; the raw user-entered string is kept for display only.
package emailx

import (
	"regexp"
	"strings"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Normalize returns the canonical form of an email address:
// surrounding whitespace removed and all characters lower-cased.
func Normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsValid reports whether the normalized form of raw looks like an
// email address. The check is syntactic only.
func IsValid(raw string) bool {
	return emailRegexp.MatchString(Normalize(raw))
}
