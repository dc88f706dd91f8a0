package api

import (
	"regexp"
	"strings"
)

var (
	// InvalidNameChars matches characters not permitted in a storage key.
	// Valid characters are: ASCII letters, digits, hyphen, underscore, space
	InvalidNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_ ]`)

	whitespaceRun = regexp.MustCompile(`\s+`)
)

// SanitizeName derives the storage key for a workflow display name. It
// removes invalid characters, collapses whitespace runs into a single hyphen,
// and lowercases the result. Distinct names may share a key
func SanitizeName(name string) string {
	sanitized := InvalidNameChars.ReplaceAllString(name, "")
	sanitized = whitespaceRun.ReplaceAllString(sanitized, "-")
	return strings.ToLower(sanitized)
}
