package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultsDeduplicates(t *testing.T) {
	t.Parallel()

	r := NewResults()

	assert.True(t, r.AddOutbound("https://b.example/"))
	assert.False(t, r.AddOutbound("https://b.example/"))
	assert.True(t, r.AddMailto("mailto:sales@partner.com"))
	assert.False(t, r.AddMailto("mailto:sales@partner.com"))
	assert.True(t, r.AddBroken("https://b.example/"))
	assert.False(t, r.AddBroken("https://b.example/"))
	assert.True(t, r.IsBroken("https://b.example/"))

	scanned, mailto, outbound, broken := r.GetStats()
	assert.Equal(t, 0, scanned)
	assert.Equal(t, 1, mailto)
	assert.Equal(t, 1, outbound)
	assert.Equal(t, 1, broken)
}

func TestSnapshotIsSortedCopy(t *testing.T) {
	t.Parallel()

	r := NewResults()
	r.AddOutbound("https://z.example/")
	r.AddOutbound("https://a.example/")
	r.AddOutbound("https://m.example/")
	assert.Equal(t, 1, r.IncrementScanned())
	assert.Equal(t, 2, r.IncrementScanned())

	snap := r.Snapshot()
	assert.Equal(t, []string{"https://a.example/", "https://m.example/", "https://z.example/"}, snap.Outbound)
	assert.Empty(t, snap.Mailto)
	assert.NotNil(t, snap.Mailto)
	assert.Equal(t, 2, snap.Scanned)

	r.AddOutbound("https://0.example/")
	assert.Len(t, snap.Outbound, 3)
}
