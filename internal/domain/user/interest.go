package user

import "fmt"

// Interest is a closed set of topic tags a user can subscribe to.
type Interest string

const (
	InterestSports      Interest = "sports"
	InterestGames       Interest = "games"
	InterestScience     Interest = "science"
	InterestPolitics    Interest = "politics"
	InterestEngineering Interest = "engineering"
)

// Interests lists every valid tag in declaration order.
var Interests = []Interest{
	InterestSports,
	InterestGames,
	InterestScience,
	InterestPolitics,
	InterestEngineering,
}

// Valid reports whether i is one of the known tags.
func (i Interest) Valid() bool {
	for _, known := range Interests {
		if i == known {
			return true
		}
	}
	return false
}

// ParseInterest converts a raw tag, rejecting anything outside the set.
func ParseInterest(s string) (Interest, error) {
	i := Interest(s)
	if !i.Valid() {
		return "", fmt.Errorf("unknown interest %q", s)
	}
	return i, nil
}
