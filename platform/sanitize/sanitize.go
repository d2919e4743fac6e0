// Package sanitize cleans crawled text before it is shown to users.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// Text strips HTML tags, decodes entities and collapses whitespace.
// Tags that only appear after decoding are stripped as well.
func Text(s string) string {
	if s == "" {
		return ""
	}
	out := htmlTagRegex.ReplaceAllString(s, " ")
	out = html.UnescapeString(out)
	out = htmlTagRegex.ReplaceAllString(out, " ")
	return strings.Join(strings.Fields(out), " ")
}
