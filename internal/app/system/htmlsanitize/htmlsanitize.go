// Package htmlsanitize reduces captured UI text to plain, single-line labels.
// It uses bluemonday to strip markup that a host UI may hand over along with
// an element's visible text.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy is the shared bluemonday policy; it allows no elements at all.
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// PlainText strips all markup from s, decodes entities, and collapses runs of
// whitespace (including newlines) into single spaces.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	if !IsPlainText(s) {
		s = html.UnescapeString(getPolicy().Sanitize(s))
	}
	return strings.Join(strings.Fields(s), " ")
}

// IsPlainText checks if content appears to be plain text (no HTML tags).
func IsPlainText(content string) bool {
	if content == "" {
		return true
	}
	// Valid HTML tags require both characters, so if either is missing, treat as plain text
	return !strings.Contains(content, "<") || !strings.Contains(content, ">")
}

// Truncate shortens s to at most max runes, appending "…" when cut.
// A non-positive max leaves s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
