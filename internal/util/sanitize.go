package util

import (
	"regexp"
)

var nonWordRegex = regexp.MustCompile(`\W`)

// SanitizeIdentifier validates and sanitizes database identifiers by removing non-word characters.
func SanitizeIdentifier(ident string) string {
	// Remove everything except letters, numbers, and underscores
	return nonWordRegex.ReplaceAllString(ident, "")
}
