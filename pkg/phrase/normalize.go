// Package phrase holds the canonical text form and the searchable
// keyword index every matching strategy runs against.
//
// All comparisons in the engine are defined over the normalized form:
// two strings are the same phrase iff Normalize maps them to the same
// string. Normalize is pure and idempotent.
package phrase

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes raw text for comparison: lower-case, hyphens,
// underscores and apostrophes become spaces, every other rune that is
// not a letter, digit or space is dropped, whitespace runs collapse to
// a single space and the ends are trimmed.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastSpace := true // leading whitespace is dropped
	for _, r := range strings.ToLower(text) {
		switch {
		case r == '-' || r == '_' || r == '\'':
			r = ' '
		case unicode.IsSpace(r):
			r = ' '
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			continue
		}
		if r == ' ' {
			if lastSpace {
				continue
			}
			lastSpace = true
		} else {
			lastSpace = false
		}
		b.WriteRune(r)
	}

	return strings.TrimRight(b.String(), " ")
}

// SplitWords splits an already-normalized phrase into its words.
func SplitWords(norm string) []string {
	return strings.Fields(norm)
}
