package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontierFIFO(t *testing.T) {
	t.Parallel()

	f := NewFrontier()
	assert.True(t, f.Enqueue("a"))
	assert.True(t, f.Enqueue("b"))
	assert.True(t, f.Enqueue("c"))
	assert.Equal(t, 3, f.Remaining())

	for _, want := range []string{"a", "b", "c"} {
		got, err := f.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := f.Dequeue()
	assert.ErrorIs(t, err, ErrFrontierEmpty)
	assert.Equal(t, 0, f.Remaining())
}

func TestFrontierDedup(t *testing.T) {
	t.Parallel()

	f := NewFrontier()
	assert.True(t, f.Enqueue("a"))
	assert.False(t, f.Enqueue("a"), "already queued")

	key, err := f.Dequeue()
	require.NoError(t, err)
	f.MarkVisited(key)

	assert.True(t, f.Visited("a"))
	assert.False(t, f.Enqueue("a"), "already visited")
	assert.Equal(t, 0, f.Remaining())
	assert.Equal(t, 1, f.VisitedCount())
}
