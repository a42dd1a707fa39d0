package trigram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	got := Extract("cat")
	assert.Len(t, got, 4)
	for _, tri := range []string{"  c", " ca", "cat", "at "} {
		assert.Contains(t, got, tri)
	}

	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("--__"))
	assert.Equal(t, Extract("CAT"), Extract("cat"))
}

func TestExtract_SplitsWords(t *testing.T) {
	got := Extract("a_b")
	assert.Contains(t, got, "  a")
	assert.Contains(t, got, " a ")
	assert.Contains(t, got, "  b")
	assert.Contains(t, got, " b ")
	assert.Len(t, got, 4)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("therealuser", "therealuser"), 1e-9)
	assert.InDelta(t, 11.0/14.0, Similarity("therealuser", "therealuser2"), 1e-9)
	assert.InDelta(t, 6.0/16.0, Similarity("therealuser", "realuser3"), 1e-9)
	assert.Zero(t, Similarity("therealuser", "imnotsimilar"))
	assert.Zero(t, Similarity("", "anything"))
}

func TestSimilarity_IsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"alice", "alicia"},
		{"bob", "bobby_tables"},
		{"x", "y"},
	}
	for _, p := range pairs {
		assert.InDelta(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), 1e-12)
	}
}
