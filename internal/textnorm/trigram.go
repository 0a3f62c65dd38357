package textnorm

import (
	"strings"
	"unicode"
)

// DefaultSimilarityThreshold matches the pg_trgm default for the % operator.
const DefaultSimilarityThreshold = 0.3

// Trigrams returns the trigram set of s the way pg_trgm builds it: the text is lower-cased and
// split into alphanumeric words, each word is padded with two leading blanks and one trailing
// blank, and every 3-rune window of the padded word is collected.
func Trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		padded := []rune("  " + w + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}

// Similarity is the pg_trgm similarity: shared trigrams over the size of the union.
func Similarity(a, b string) float64 {
	ta, tb := Trigrams(a), Trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	shared := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}
