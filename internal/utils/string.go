package utils

import (
	"strings"
	"unicode"
)

// boundaryRunes are the punctuation runes that terminate a word in
// progress, mirroring the boundary keys reported by keyboard hooks.
const boundaryRunes = " \t\n.,?!;:()[]{}<>\"`"

// IsWordBoundary reports whether a rune ends the word being typed.
// Space, enter and tab plus common punctuation, brackets and quotes
// all count as boundaries.
func IsWordBoundary(r rune) bool {
	return strings.ContainsRune(boundaryRunes, r)
}

// IsTypeable reports whether a rune belongs in the typed-character
// buffer: printable and not a word boundary.
func IsTypeable(r rune) bool {
	return unicode.IsPrint(r) && !IsWordBoundary(r)
}

// ContainsDigit checks if a string contains any numeric digits
func ContainsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
