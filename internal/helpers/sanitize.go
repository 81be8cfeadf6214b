package helpers

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// StrictHTMLPolicy returns a singleton bluemonday policy that strips every HTML
// element and attribute.
func StrictHTMLPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// SanitizeHTMLStrict removes every HTML tag from s while stripping leading and
// trailing whitespace. Entities are left escaped.
func SanitizeHTMLStrict(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(StrictHTMLPolicy().Sanitize(s))
}

// PlainText turns a feed or sitemap title into display text: tags removed,
// entities decoded (including double-escaped ones such as "&amp;#39;") and
// whitespace runs folded into single spaces.
func PlainText(s string) string {
	s = SanitizeHTMLStrict(html.UnescapeString(s))
	for i := 0; i < 2 && strings.Contains(s, "&"); i++ {
		unescaped := html.UnescapeString(s)
		if unescaped == s {
			break
		}
		s = unescaped
	}
	return strings.Join(strings.Fields(s), " ")
}
