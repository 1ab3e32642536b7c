package merge

import (
	"regexp"
	"strings"
)

var (
	invalidPathChars = regexp.MustCompile(`[^a-z0-9._]+`)
	repeatedDots     = regexp.MustCompile(`\.{2,}`)
	repeatedUnders   = regexp.MustCompile(`_{2,}`)
)

// Normalize canonicalises a dotted content path: it trims and lowercases the
// input, replaces every run of characters outside [a-z0-9._] with a single
// underscore and collapses repeated dots and underscores. Normalize is
// idempotent.
func Normalize(path string) string {
	out := strings.ToLower(strings.TrimSpace(path))
	out = invalidPathChars.ReplaceAllString(out, "_")
	out = repeatedDots.ReplaceAllString(out, ".")
	out = repeatedUnders.ReplaceAllString(out, "_")
	return out
}

// Segments splits a normalised path on dots.
func Segments(path string) []string {
	return strings.Split(path, ".")
}
