package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alvmarrod/linkcheck/internal/crawler"
	"github.com/alvmarrod/linkcheck/internal/metrics"
	"github.com/alvmarrod/linkcheck/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCrawler struct {
	events []crawler.Event
	seeds  chan string
}

func (f *fakeCrawler) Crawl(_ context.Context, seed string, sink crawler.EventSink, tracker *metrics.Tracker) (*crawler.Summary, error) {
	if f.seeds != nil {
		f.seeds <- seed
	}
	for _, ev := range f.events {
		sink(ev)
	}
	tracker.IncrementPagesScanned()
	return &crawler.Summary{}, nil
}

type fakeReports struct {
	path string
	name string
}

func (f fakeReports) Open(_ context.Context, ref string) (string, string, error) {
	if ref != "known" {
		return "", "", report.ErrReportNotFound
	}
	return f.path, f.name, nil
}

func TestCrawlStreamsEvents(t *testing.T) {
	t.Parallel()

	fc := &fakeCrawler{
		seeds: make(chan string, 1),
		events: []crawler.Event{
			{Kind: crawler.EventLog, Message: "✅ Scanned: https://example.com"},
			{Kind: crawler.EventProgress, Progress: 100, Scanned: 1},
			{Kind: crawler.EventComplete, Message: crawler.CompleteMessage, Download: "/api/download/known"},
		},
	}
	srv := httptest.NewServer(New(fc, fakeReports{}, "", 1).Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/api/crawl", "application/json", strings.NewReader(`{"url":"example.com?a=1&b=2"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/x-ndjson", resp.Header.Get("Content-Type"))
	assert.Equal(t, "example.com?a=1&b=2", <-fc.seeds)

	var lines []map[string]any
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 3)
	assert.Equal(t, map[string]any{"log": "✅ Scanned: https://example.com"}, lines[0])
	assert.Equal(t, map[string]any{"progress": float64(100), "scanned": float64(1)}, lines[1])
	assert.Equal(t, map[string]any{"log": crawler.CompleteMessage, "download": "/api/download/known"}, lines[2])
}

func TestCrawlRejectsBadRequests(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(&fakeCrawler{}, fakeReports{}, "", 1).Handler())
	t.Cleanup(srv.Close)

	for _, body := range []string{`not json`, `{}`, `{"url":"   "}`} {
		resp, err := http.Post(srv.URL+"/api/crawl", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}

	resp, err := http.Get(srv.URL + "/api/crawl")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestDownload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "crawl_results_example_com.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.3 test"), 0o644))

	srv := httptest.NewServer(New(&fakeCrawler{}, fakeReports{path: path, name: "crawl_results_example_com.pdf"}, "", 1).Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/api/download/known")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename=crawl_results_example_com.pdf`, resp.Header.Get("Content-Disposition"))

	missing, err := http.Get(srv.URL + "/api/download/unknown")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestStaticFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>Link Checker</h1>"), 0o644))

	srv := httptest.NewServer(New(&fakeCrawler{}, fakeReports{}, dir, 1).Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var b strings.Builder
	_, err = bufio.NewReader(resp.Body).WriteTo(&b)
	require.NoError(t, err)
	assert.Contains(t, b.String(), "Link Checker")
}
