package fuzzy

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases name and drops every rune that is neither a word
// character (letter, number, underscore) nor whitespace.
//
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(name string) string {
	lower := cases.Lower(language.Und).String(name)
	return strings.Map(func(r rune) rune {
		if isWord(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, lower)
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
