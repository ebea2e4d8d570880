package core

import (
	"strings"
	"unicode"
)

// NormalizeWords lowercases text and splits it into letter/digit runs,
// dropping punctuation. "How'd I sleep?" becomes [how d i sleep].
func NormalizeWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContainsAnyTerm reports whether any of the terms occurs in text.
// Single-word terms match whole words only, multi-word terms match as
// phrases over the normalized word sequence, so "nap" never fires on
// "snapshot". Terms must be lowercase and single-spaced.
func ContainsAnyTerm(text string, terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	joined := " " + strings.Join(NormalizeWords(text), " ") + " "
	for _, term := range terms {
		if strings.Contains(joined, " "+term+" ") {
			return true
		}
	}
	return false
}
