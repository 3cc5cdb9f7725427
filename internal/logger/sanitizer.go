package logger

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxLen is the rendered length above which values are truncated.
const DefaultMaxLen = 100

// Sanitizer masks the rendered values of sensitive parameters and truncates
// long values to keep secrets and noise out of trace output.
type Sanitizer struct {
	sensitiveFields []string
	maskValue       string
	maxLen          int
	// Compiled patterns for faster matching
	patterns []*regexp.Regexp
}

// NewSanitizer creates a new sanitizer with the specified sensitive parameter names.
// If no fields are provided, a default set of common sensitive names is used.
func NewSanitizer(sensitiveFields []string) *Sanitizer {
	if len(sensitiveFields) == 0 {
		sensitiveFields = []string{
			"password", "passwd", "pwd",
			"token", "api_key", "apikey", "api_token",
			"secret", "auth", "authorization",
			"credit_card", "card_number", "cvv", "cvc",
			"ssn", "social_security",
			"private_key", "priv_key",
		}
	}

	// Parameter names are matched case-insensitively as whole words, with
	// "_" treated as a separator so that "db_password" matches "password".
	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields))
	for _, field := range sensitiveFields {
		pattern := regexp.MustCompile(`(?i)(^|[^a-z0-9])` + regexp.QuoteMeta(field) + `($|[^a-z0-9])`)
		patterns = append(patterns, pattern)
	}

	return &Sanitizer{
		sensitiveFields: sensitiveFields,
		maskValue:       "***REDACTED***",
		maxLen:          DefaultMaxLen,
		patterns:        patterns,
	}
}

// WithMaxLen returns a copy of the sanitizer truncating at n bytes, backing
// off to the previous rune boundary.
// n <= 0 disables truncation.
func (s *Sanitizer) WithMaxLen(n int) *Sanitizer {
	c := *s
	c.maxLen = n
	return &c
}

// IsSensitive reports whether a parameter name looks like it holds a secret.
// Catch-all prefixes ("*", "**") are ignored.
func (s *Sanitizer) IsSensitive(name string) bool {
	name = strings.TrimLeft(name, "*")
	if name == "" {
		return false
	}
	for _, pattern := range s.patterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// MaskValue returns the mask for sensitive parameter names, and the rendered
// value otherwise, truncated to the configured length.
func (s *Sanitizer) MaskValue(name, rendered string) string {
	if s.IsSensitive(name) {
		return s.maskValue
	}
	if s.maxLen > 0 && len(rendered) > s.maxLen {
		cut := s.maxLen
		for cut > 0 && !utf8.RuneStart(rendered[cut]) {
			cut--
		}
		return rendered[:cut] + "..."
	}
	return rendered
}
