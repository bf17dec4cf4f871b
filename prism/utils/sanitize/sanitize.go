package sanitize

import "strings"

// Clean trims whitespace, strips angle brackets (cheap HTML-injection guard
// for content echoed back to browsers) and caps the result at max runes.
func Clean(s string, max int) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	runes := []rune(s)
	if len(runes) > max {
		s = string(runes[:max])
	}
	return strings.TrimSpace(s)
}
