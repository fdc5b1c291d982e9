package combine

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Slug converts a heading title into a GitHub-style anchor slug: lowercase,
// Unicode letters/digits/spaces/hyphens/underscores retained, everything else
// stripped, whitespace collapsed to single hyphens.
func Slug(title string) string {
	normalized := norm.NFC.String(title)
	lowered := strings.ToLower(normalized)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	collapsed := strings.Join(strings.Fields(b.String()), "-")
	return collapsed
}
