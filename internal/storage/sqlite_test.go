package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	store, err := NewStorage(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	store := newTestStorage(t)
	ctx := context.Background()
	started := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	run := Run{
		RunID:        "run-1",
		Domain:       "example.com",
		SeedURL:      "https://example.com",
		StartedAt:    started,
		FinishedAt:   started.Add(time.Minute),
		PagesScanned: 3,
		ReportPath:   "/tmp/report.pdf",
		ReportName:   "report.pdf",
	}
	links := []Link{
		{Category: CategoryOutbound, URL: "https://z.example/"},
		{Category: CategoryOutbound, URL: "https://a.example/"},
		{Category: CategoryOutbound, URL: "https://a.example/"},
		{Category: CategoryBroken, URL: "https://a.example/"},
	}
	require.NoError(t, store.SaveRun(ctx, run, links))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "example.com", got.Domain)
	assert.Equal(t, 3, got.PagesScanned)
	assert.Equal(t, "report.pdf", got.ReportName)
	assert.True(t, got.StartedAt.Equal(started))

	outbound, err := store.ListLinks(ctx, "run-1", CategoryOutbound)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/", "https://z.example/"}, outbound)

	mailto, err := store.ListLinks(ctx, "run-1", CategoryMailto)
	require.NoError(t, err)
	assert.Empty(t, mailto)
}

func TestGetRunMissing(t *testing.T) {
	t.Parallel()

	store := newTestStorage(t)
	got, err := store.GetRun(context.Background(), "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveRunRejectsDuplicateID(t *testing.T) {
	t.Parallel()

	store := newTestStorage(t)
	ctx := context.Background()
	run := Run{RunID: "dup", Domain: "example.com", SeedURL: "https://example.com", ReportPath: "p", ReportName: "n"}

	require.NoError(t, store.SaveRun(ctx, run, nil))
	require.Error(t, store.SaveRun(ctx, run, []Link{{Category: CategoryBroken, URL: "x"}}))

	broken, err := store.ListLinks(ctx, "dup", CategoryBroken)
	require.NoError(t, err)
	assert.Empty(t, broken)
}
