// Package htmlsanitize cleans the free-text fields (descriptions, bios) that
// admin clients may submit as rich text.
package htmlsanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

func richText() *bluemonday.Policy {
	once.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("u", "s", "mark", "pre", "code")
		p.AllowAttrs("class").OnElements("table", "tr", "td", "th", "p", "span")
		p.RequireNoFollowOnLinks(true)
		policy = p
	})
	return policy
}

// Sanitize strips scripts, event handlers, iframes and unsafe URLs while
// keeping basic formatting.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return richText().Sanitize(s)
}

// IsPlainText reports whether s has no markup at all.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}

// Clean trims s and sanitizes it only when it carries markup, so plain text
// like "R&D" is stored as typed.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if IsPlainText(s) {
		return s
	}
	return strings.TrimSpace(Sanitize(s))
}

// CleanPtr applies Clean through a patch pointer.
func CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := Clean(*s)
	return &v
}
