package security

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxSearchQueryLength defines the maximum allowed length for search queries
	MaxSearchQueryLength = 100
)

var (
	// ErrQueryTooLong is returned for queries longer than MaxSearchQueryLength runes.
	ErrQueryTooLong = errors.New("search query too long")
	// ErrQueryControlChars is returned when a query contains control characters.
	ErrQueryControlChars = errors.New("search query contains control characters")
)

// ValidateSearchQuery trims a search query and bounds its length. The query is
// free text compared in memory against usernames, so punctuation is accepted and
// simply contributes no trigrams.
func ValidateSearchQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	if utf8.RuneCountInString(query) > MaxSearchQueryLength {
		return "", ErrQueryTooLong
	}

	if strings.IndexFunc(query, unicode.IsControl) >= 0 {
		return "", ErrQueryControlChars
	}

	return query, nil
}
