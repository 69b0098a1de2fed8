// Package sanitizer removes markup from user-supplied text before it is used
// as slug source.
package sanitizer

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// StrictPolicy strips ALL HTML, returns plain text
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// StripHTML removes every tag, keeping only text content.
// Entities in the output stay escaped, as bluemonday produces them.
func StripHTML(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// PlainText strips markup, decodes entities and collapses whitespace runs.
// Input without a '<' or '&' is only whitespace-normalized, so ordinary
// titles never pass through the HTML parser.
func PlainText(s string) string {
	if strings.ContainsAny(s, "<&") {
		s = html.UnescapeString(StripHTML(s))
	}
	return strings.Join(strings.Fields(s), " ")
}
