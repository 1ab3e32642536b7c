package schema

import (
	"regexp"
	"strings"
)

var splitWordsPattern = regexp.MustCompile(`[_\-.\s]+`)

// Humanize converts a slug or path segment into a display name. It splits on
// separators and camelCase boundaries and title-cases every word, so
// "hero_title" becomes "Hero Title".
func Humanize(name string) string {
	if name == "" {
		return ""
	}

	var segments []string
	for _, word := range words(name) {
		segments = append(segments, titleCase(word))
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

// PascalCase joins the humanized words of name without spaces. Names that
// would start with a digit are prefixed with an underscore so the result is
// a valid identifier.
func PascalCase(name string) string {
	var out strings.Builder
	for _, word := range words(name) {
		out.WriteString(titleCase(word))
	}
	ident := out.String()
	if ident != "" && isDigit(rune(ident[0])) {
		return "_" + ident
	}
	return ident
}

func words(name string) []string {
	var out []string
	for _, word := range splitWordsPattern.Split(name, -1) {
		if word == "" {
			continue
		}
		out = append(out, strings.Fields(splitCamel(word))...)
	}
	return out
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
