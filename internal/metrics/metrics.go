package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/alvmarrod/linkcheck/internal/storage"
)

// Tracker holds and manages crawl metrics
type Tracker struct {
	mu               sync.Mutex
	data             storage.Metrics
	totalFetchTimeMs int64
	fetchCount       int
}

// NewTracker creates a new metrics tracker
func NewTracker() *Tracker {
	return &Tracker{
		data: storage.Metrics{
			StartTime: time.Now(),
		},
	}
}

// IncrementPagesScanned increments the successfully scanned pages counter
func (t *Tracker) IncrementPagesScanned() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.PagesScanned++
}

// IncrementPagesFailed increments the failed page fetch counter
func (t *Tracker) IncrementPagesFailed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.PagesFailed++
}

// IncrementOutboundProbed increments the external link probe counter
func (t *Tracker) IncrementOutboundProbed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.OutboundProbed++
}

// IncrementBrokenFound increments the broken link counter
func (t *Tracker) IncrementBrokenFound() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.BrokenFound++
}

// IncrementMailtoFound increments the foreign mailto counter
func (t *Tracker) IncrementMailtoFound() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.MailtoFound++
}

// RecordFetchTime records a page fetch or probe duration
func (t *Tracker) RecordFetchTime(duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalFetchTimeMs += duration.Milliseconds()
	t.fetchCount++
}

// GetSnapshot returns a copy of current metrics
func (t *Tracker) GetSnapshot() storage.Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := t.data
	snapshot.TotalFetchTimeMs = t.totalFetchTimeMs
	if t.fetchCount > 0 {
		snapshot.AvgFetchTimeMs = t.totalFetchTimeMs / int64(t.fetchCount)
	}

	return snapshot
}

// WriteToFile exports metrics to a JSON file
func (t *Tracker) WriteToFile(path, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data.EndTime = time.Now()
	t.data.TerminationReason = reason
	t.data.TotalFetchTimeMs = t.totalFetchTimeMs
	if t.fetchCount > 0 {
		t.data.AvgFetchTimeMs = t.totalFetchTimeMs / int64(t.fetchCount)
	}

	jsonData, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}

	return nil
}

// LogProgress formats current metrics for a log line
func (t *Tracker) LogProgress() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return fmt.Sprintf("Pages: %d scanned, %d failed | Outbound: %d probed | Broken: %d | Mailto: %d",
		t.data.PagesScanned,
		t.data.PagesFailed,
		t.data.OutboundProbed,
		t.data.BrokenFound,
		t.data.MailtoFound,
	)
}
