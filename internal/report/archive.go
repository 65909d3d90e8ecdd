package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alvmarrod/linkcheck/internal/crawler"
	"github.com/alvmarrod/linkcheck/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DownloadPrefix is the path under which published reports are served
const DownloadPrefix = "/api/download/"

// ErrReportNotFound is returned for unknown or malformed references
var ErrReportNotFound = errors.New("report not found")

// Archive renders finished crawls to disk and records them in the catalog
type Archive struct {
	dir    string
	gen    Generator
	store  *storage.Storage
	footer []string
}

// NewArchive creates the report directory if needed
func NewArchive(dir string, gen Generator, store *storage.Storage, footer []string) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &Archive{dir: dir, gen: gen, store: store, footer: footer}, nil
}

// Publish implements crawler.Publisher. The returned reference is the
// download path of the new report.
func (a *Archive) Publish(ctx context.Context, s crawler.Summary) (string, error) {
	runID := uuid.NewString()
	ts := s.FinishedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	// one directory per run keeps same-second reports of a domain apart
	runDir := filepath.Join(a.dir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	name := FileName(s.Domain, ts, a.gen.Extension())
	path := filepath.Join(runDir, name)

	data := Data{
		Domain:    s.Domain,
		Timestamp: ts,
		Mailto:    s.Mailto,
		Outbound:  s.Outbound,
		Broken:    s.Broken,
		Footer:    a.footer,
	}
	if err := a.gen.Render(data, path); err != nil {
		return "", err
	}

	run := storage.Run{
		RunID:        runID,
		Domain:       s.Domain,
		SeedURL:      s.SeedURL,
		StartedAt:    s.StartedAt,
		FinishedAt:   ts,
		PagesScanned: s.Scanned,
		ReportPath:   path,
		ReportName:   name,
	}
	if err := a.store.SaveRun(ctx, run, collectLinks(s)); err != nil {
		return "", err
	}

	logrus.Infof("Report %s written for %s (run %s)", name, s.Domain, runID)
	return DownloadPrefix + runID, nil
}

// Open resolves a run ID (or a full download reference) to the report file
func (a *Archive) Open(ctx context.Context, ref string) (path, name string, err error) {
	runID := strings.TrimPrefix(ref, DownloadPrefix)
	if _, err := uuid.Parse(runID); err != nil {
		return "", "", ErrReportNotFound
	}

	run, err := a.store.GetRun(ctx, runID)
	if err != nil {
		return "", "", err
	}
	if run == nil {
		return "", "", ErrReportNotFound
	}
	if _, err := os.Stat(run.ReportPath); err != nil {
		logrus.Warnf("Report file for run %s is gone: %v", runID, err)
		return "", "", ErrReportNotFound
	}
	return run.ReportPath, run.ReportName, nil
}

func collectLinks(s crawler.Summary) []storage.Link {
	links := make([]storage.Link, 0, len(s.Mailto)+len(s.Outbound)+len(s.Broken))
	for _, u := range s.Mailto {
		links = append(links, storage.Link{Category: storage.CategoryMailto, URL: u})
	}
	for _, u := range s.Outbound {
		links = append(links, storage.Link{Category: storage.CategoryOutbound, URL: u})
	}
	for _, u := range s.Broken {
		links = append(links, storage.Link{Category: storage.CategoryBroken, URL: u})
	}
	return links
}
