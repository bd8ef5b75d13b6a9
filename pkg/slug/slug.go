// Package slug provides URL-safe slug generation from page titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonWord strips anything that is not a word character, whitespace, or hyphen
	nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	// separators collapses whitespace/hyphen runs into a single hyphen
	separators = regexp.MustCompile(`[-\s]+`)
)

// Make generates a URL-safe slug from the given title.
// Example: "Hello, World!  2026" → "hello-world-2026"
func Make(title string) string {
	s := nonWord.ReplaceAllString(strings.ToLower(title), "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
