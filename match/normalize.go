package match

import (
	"regexp"
	"strings"
	"unicode"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Normalize lowercases text, removes embedded URLs, replaces punctuation
// with spaces and collapses runs of whitespace. Every fuzzy comparison goes
// through this first so case and punctuation noise never affect scores.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = urlPattern.ReplaceAllString(s, " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
