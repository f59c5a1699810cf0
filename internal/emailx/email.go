// Package emailx validates and normalizes the student email addresses that
// serve as account identities. Only addresses under the .edu top-level
// domain are accepted.
package emailx

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	eduPattern   = regexp.MustCompile(`(?i)\.edu$`)
)

// Normalize trims surrounding whitespace and lowercases the address.
// The normalized form is the canonical identity stored and compared
// everywhere else.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEdu reports whether email is a well-formed address ending in .edu.
// The input is expected to be normalized already; validation itself is
// case-insensitive on the suffix.
func IsValidEdu(email string) bool {
	if email == "" {
		return false
	}
	if !emailPattern.MatchString(email) {
		return false
	}
	return eduPattern.MatchString(email)
}
