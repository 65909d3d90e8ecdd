package storage

import "time"

// Link categories stored in run_links
const (
	CategoryMailto   = "mailto"
	CategoryOutbound = "outbound"
	CategoryBroken   = "broken"
)

// Run represents one finished crawl and the report generated for it
type Run struct {
	RunID        string
	Domain       string
	SeedURL      string
	StartedAt    time.Time
	FinishedAt   time.Time
	PagesScanned int
	ReportPath   string
	ReportName   string
}

// Link is one entry of a run's mailto, outbound or broken section
type Link struct {
	Category string
	URL      string
}

// Metrics tracks crawl statistics for export on exit
type Metrics struct {
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	PagesScanned      int       `json:"pages_scanned"`
	PagesFailed       int       `json:"pages_failed"`
	OutboundProbed    int       `json:"outbound_probed"`
	BrokenFound       int       `json:"broken_found"`
	MailtoFound       int       `json:"mailto_found"`
	TotalFetchTimeMs  int64     `json:"total_fetch_time_ms"`
	AvgFetchTimeMs    int64     `json:"avg_fetch_time_ms"`
	TerminationReason string    `json:"termination_reason"`
}
