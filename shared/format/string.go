package format

import (
	"strings"
	"unicode/utf8"
)

// Preview flattens s onto one line and cuts it to at most limit runes for
// log fields and error bodies.
func Preview(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "…"
}
