package pathtracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_FirstPathWins(t *testing.T) {
	tr := New()

	require.True(t, tr.Set([]string{"A", "B", "C"}))
	assert.False(t, tr.Set([]string{"X", "Y"}), "a second path must be ignored")

	assert.Equal(t, []string{"A", "B", "C"}, tr.Path())
	assert.True(t, tr.Contains("B"))
	assert.False(t, tr.Contains("X"))
}

func TestSet_EmptyPathIsNotAccepted(t *testing.T) {
	tr := New()

	assert.False(t, tr.Set(nil))
	assert.False(t, tr.Set([]string{}))
	assert.False(t, tr.IsSet())
	assert.True(t, tr.Set([]string{"A"}), "an empty report must not lock the tracker")
}

func TestSet_CopiesInput(t *testing.T) {
	tr := New()
	path := []string{"A", "B"}
	tr.Set(path)

	path[0] = "mutated"

	assert.Equal(t, []string{"A", "B"}, tr.Path())
}

func TestIsEdgeOnPath_RespectsDirection(t *testing.T) {
	tr := New()
	tr.Set([]string{"A", "B", "C"})

	testCases := []struct {
		source, target string
		expected       bool
	}{
		{"A", "B", true},
		{"B", "C", true},
		{"B", "A", false},
		{"A", "C", false},
		{"C", "D", false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tr.IsEdgeOnPath(tc.source, tc.target), "%s->%s", tc.source, tc.target)
	}
}

func TestReset_ClearsPath(t *testing.T) {
	tr := New()
	tr.Set([]string{"A", "B"})

	tr.Reset()

	assert.Nil(t, tr.Path())
	assert.Zero(t, tr.Len())
	assert.False(t, tr.Contains("A"))
	assert.False(t, tr.IsEdgeOnPath("A", "B"))
	assert.True(t, tr.Set([]string{"Z"}), "a new path is accepted after reset")
}
