// Package sanitize cleans user-generated text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips all markup from s and collapses surrounding whitespace.
// Entities produced by the policy are unescaped again so plain text such as
// "R&D" is stored as typed.
func Text(s string) string {
	cleaned := strict.Sanitize(s)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// List applies Text to every element and drops those left empty.
func List(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if c := Text(v); c != "" {
			out = append(out, c)
		}
	}
	return out
}
