// Package sanitize cleans user-supplied document text before it is
// persisted. Titles and content are stored as plain text: all markup is
// stripped (scripts included) and what remains is HTML-escaped, so the
// stored value is safe to render anywhere without further escaping.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	strict *bluemonday.Policy
)

func policy() *bluemonday.Policy {
	once.Do(func() {
		strict = bluemonday.StrictPolicy()
	})
	return strict
}

// Text strips all HTML from input, escapes what remains, and trims
// surrounding whitespace. Empty input yields the empty string.
func Text(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(policy().Sanitize(input))
}
