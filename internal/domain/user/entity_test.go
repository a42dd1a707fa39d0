package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterest(t *testing.T) {
	for _, raw := range []string{"sports", "games", "science", "politics", "engineering"} {
		i, err := ParseInterest(raw)
		require.NoError(t, err)
		assert.Equal(t, Interest(raw), i)
	}

	_, err := ParseInterest("cooking")
	assert.Error(t, err)
	_, err = ParseInterest("Sports")
	assert.Error(t, err)
}

func TestUserSummary(t *testing.T) {
	u := &User{ID: uuid.New(), Email: "a@b.c", Username: "alice", Name: "Alice"}
	assert.Equal(t, Summary{ID: u.ID, Username: "alice", Name: "Alice"}, u.Summary())
}
