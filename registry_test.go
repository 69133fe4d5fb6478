package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryOrdersByPriorityDescending(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("low", "low", 1)
	r.Register("high", "high", 10)
	r.Register("mid", "mid", 5)

	assert.Equal(t, []string{"high", "mid", "low"}, r.Items())
}

func TestRegistryTiesBreakMostRecentFirst(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("a", "a", 5)
	r.Register("b", "b", 5)
	r.Register("c", "c", 5)

	assert.Equal(t, []string{"c", "b", "a"}, r.Items())
}

func TestRegistryReRegisterReplacesAndCountsAsFresh(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("a", "a", 5)
	r.Register("b", "b", 5)
	r.Register("a", "a2", 5)

	assert.Equal(t, []string{"a2", "b"}, r.Items())
}

func TestRegistryDeregisterStrict(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("a", "a", 1)

	require.NoError(t, r.Deregister("a", true))
	err := r.Deregister("a", true)
	require.Error(t, err)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	require.NoError(t, r.Deregister("missing", false))
}

func TestRegistryIndexForNameMatchesIterationPosition(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("a", "a", 1)
	r.Register("b", "b", 10)
	r.Register("c", "c", 5)

	items := r.Items()
	for i, name := range []string{"b", "c", "a"} {
		idx, err := r.IndexForName(name)
		require.NoError(t, err)
		assert.Equal(t, i, idx)
		assert.Equal(t, name, items[idx])
	}

	_, err := r.IndexForName("nope")
	require.Error(t, err)
}

func TestRegistrySlicePreservesRelativeOrder(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("a", "a", 30)
	r.Register("b", "b", 20)
	r.Register("c", "c", 10)

	sub := r.Slice(1, 3)
	assert.Equal(t, []string{"b", "c"}, sub.Items())
}

func TestRegistryFractionalPriorities(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("a", "a", 1.5)
	r.Register("b", "b", 1.25)
	r.Register("c", "c", 1.75)

	assert.Equal(t, []string{"c", "a", "b"}, r.Items())
}

func TestRegistryLenAndContains(t *testing.T) {
	r := NewRegistry[string]()
	assert.Equal(t, 0, r.Len())
	r.Register("a", "a", 1)
	assert.Equal(t, 1, r.Len())
	assert.True(t, r.Contains("a"))
	assert.False(t, r.Contains("b"))
}
