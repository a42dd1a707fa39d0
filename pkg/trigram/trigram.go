// Package trigram computes string similarity the way PostgreSQL's pg_trgm extension does:
// lowercase, split into alphanumeric words, pad each word with two leading blanks and one
// trailing blank, collect the distinct three-rune windows and compare the two sets.
package trigram

import (
	"strings"
	"unicode"
)

// Set is the distinct trigrams of a string.
type Set map[string]struct{}

// Extract returns the trigram set of s.
func Extract(s string) Set {
	set := make(Set)
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

// Similarity returns |a ∩ b| / |a ∪ b| in the range [0, 1].
func (a Set) Similarity(b Set) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shared := 0
	for t := range a {
		if _, ok := b[t]; ok {
			shared++
		}
	}

	return float64(shared) / float64(len(a)+len(b)-shared)
}

// Similarity is a convenience for Extract(a).Similarity(Extract(b)).
func Similarity(a, b string) float64 {
	return Extract(a).Similarity(Extract(b))
}
