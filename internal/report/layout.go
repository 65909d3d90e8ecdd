// Package report renders crawl results into downloadable documents and
// keeps a catalog of the documents it produced.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TimestampLayout is used in report headers and file names
const TimestampLayout = "2006-01-02_15-04-05"

// EmptyMarker replaces an empty section
const EmptyMarker = "ZERO errors"

// Title heads every report
const Title = "Link Checker Results"

// Data is everything a report shows
type Data struct {
	Domain    string
	Timestamp time.Time
	Mailto    []string
	Outbound  []string
	Broken    []string
	Footer    []string
}

// LineStyle tells renderers how to present a line
type LineStyle int

const (
	StyleText LineStyle = iota
	StyleTitle
	StyleHeading
	StyleBlank
)

// Line is one row of the rendered report
type Line struct {
	Text  string
	Style LineStyle
}

// Layout lays out the report independent of the output format: header,
// the mailto, outbound and broken sections, then the footer.
func Layout(data Data) []Line {
	lines := []Line{
		{Text: Title, Style: StyleTitle},
		{Text: "Checked Domain: " + data.Domain},
		{Text: "Timestamp: " + data.Timestamp.Format(TimestampLayout)},
	}

	sections := []struct {
		heading string
		entries []string
	}{
		{"Error Mailto Links:", data.Mailto},
		{"Error Outbound Links:", data.Outbound},
		{"Broken Links (404s or failed):", data.Broken},
	}
	for _, s := range sections {
		lines = append(lines, Line{Style: StyleBlank}, Line{Text: s.heading, Style: StyleHeading})
		if len(s.entries) == 0 {
			lines = append(lines, Line{Text: EmptyMarker})
			continue
		}
		sorted := append([]string(nil), s.entries...)
		sort.Strings(sorted)
		for _, e := range sorted {
			lines = append(lines, Line{Text: e})
		}
	}

	if len(data.Footer) > 0 {
		lines = append(lines, Line{Style: StyleBlank}, Line{Text: strings.Repeat("-", 27)})
		for _, f := range data.Footer {
			lines = append(lines, Line{Text: f})
		}
	}
	return lines
}

// FileName builds crawl_results_<domain>_<timestamp>.<ext>
func FileName(domain string, ts time.Time, ext string) string {
	return fmt.Sprintf("crawl_results_%s_%s.%s", strings.ReplaceAll(domain, ".", "_"), ts.Format(TimestampLayout), ext)
}
