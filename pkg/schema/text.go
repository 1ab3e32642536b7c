package schema

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

// PlainText strips any markup from raw and collapses whitespace. Labels and
// help strings are authored inside component markup and occasionally carry
// inline tags; generated comments and API descriptions want the text only.
func PlainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	cleaned := html.UnescapeString(plainPolicy.Sanitize(trimmed))
	return strings.Join(strings.Fields(cleaned), " ")
}
