package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"time"

	"github.com/alvmarrod/linkcheck/internal/crawler"
	"github.com/alvmarrod/linkcheck/internal/metrics"
	"github.com/alvmarrod/linkcheck/internal/report"
	"github.com/sirupsen/logrus"
)

// Crawler runs one crawl, streaming events to sink
type Crawler interface {
	Crawl(ctx context.Context, seed string, sink crawler.EventSink, tracker *metrics.Tracker) (*crawler.Summary, error)
}

// Reports resolves download references to files
type Reports interface {
	Open(ctx context.Context, ref string) (path, name string, err error)
}

// Server exposes the crawl engine over HTTP
type Server struct {
	crawler     Crawler
	reports     Reports
	staticDir   string
	eventBuffer int
}

type crawlRequest struct {
	URL string `json:"url"`
}

// New creates a server. An empty or missing staticDir disables static serving.
func New(c Crawler, reports Reports, staticDir string, eventBuffer int) *Server {
	if eventBuffer < 1 {
		eventBuffer = 1
	}
	return &Server{crawler: c, reports: reports, staticDir: staticDir, eventBuffer: eventBuffer}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/crawl", s.handleCrawl)
	mux.HandleFunc("GET /api/download/{ref}", s.handleDownload)

	if s.staticDir != "" {
		if info, err := os.Stat(s.staticDir); err == nil && info.IsDir() {
			mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))
		} else {
			logrus.Warnf("Static directory %s not found, frontend disabled", s.staticDir)
		}
	}
	return mux
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logrus.Info("Shutting down HTTP server (max 10s)...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// handleCrawl streams one JSON event per line until the crawl completes
func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	var req crawlRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := crawler.NormalizeSeed(req.URL); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	ctx := r.Context()
	events := make(chan crawler.Event, s.eventBuffer)
	tracker := metrics.NewTracker()
	done := make(chan error, 1)

	go func() {
		defer close(events)
		_, err := s.crawler.Crawl(ctx, req.URL, func(ev crawler.Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}, tracker)
		done <- err
	}()

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	clientGone := false
	for ev := range events {
		if clientGone {
			continue
		}
		if err := enc.Encode(ev); err != nil {
			logrus.Debugf("Client for %s went away: %v", req.URL, err)
			clientGone = true
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		logrus.Errorf("Crawl of %s failed: %v", req.URL, err)
		return
	}
	logrus.Infof("Crawl of %s: %s", req.URL, tracker.LogProgress())
}

// handleDownload serves a generated report as an attachment
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	path, name, err := s.reports.Open(r.Context(), r.PathValue("ref"))
	if errors.Is(err, report.ErrReportNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logrus.Errorf("Failed to open report %s: %v", r.PathValue("ref"), err)
		http.Error(w, "failed to open report", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	http.ServeFile(w, r, path)
}
