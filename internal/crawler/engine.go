package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/alvmarrod/linkcheck/internal/memory"
	"github.com/alvmarrod/linkcheck/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Default request bounds
const (
	DefaultPageTimeout  = 15 * time.Second
	DefaultProbeTimeout = 10 * time.Second
)

// Publisher turns the final results into a downloadable report and
// returns the reference clients use to retrieve it
type Publisher interface {
	Publish(ctx context.Context, summary Summary) (string, error)
}

// Summary is the immutable outcome of one crawl
type Summary struct {
	Domain     string
	SeedURL    string
	StartedAt  time.Time
	FinishedAt time.Time
	Download   string
	memory.Snapshot
}

// Options tunes the engine
type Options struct {
	PageTimeout     time.Duration
	ProbeTimeout    time.Duration
	ExcludedDomains []string
}

// Engine runs crawls. It holds no per-crawl state, so one engine can
// serve many concurrent crawls.
type Engine struct {
	fetcher   Fetcher
	extractor LinkExtractor
	publisher Publisher
	opts      Options
}

// NewEngine creates a crawl engine. A nil publisher skips report generation.
func NewEngine(fetcher Fetcher, extractor LinkExtractor, publisher Publisher, opts Options) *Engine {
	if opts.PageTimeout <= 0 {
		opts.PageTimeout = DefaultPageTimeout
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	return &Engine{
		fetcher:   fetcher,
		extractor: extractor,
		publisher: publisher,
		opts:      opts,
	}
}

// State is the lifecycle stage of a crawl
type State int

const (
	StateSeeded State = iota
	StateRunning
	StateReporting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSeeded:
		return "seeded"
	case StateRunning:
		return "running"
	case StateReporting:
		return "reporting"
	default:
		return "done"
	}
}

// run owns every accumulating set of a single crawl
type run struct {
	engine     *Engine
	seed       *url.URL
	classifier *Classifier
	frontier   *Frontier
	results    *memory.Results
	tracker    *metrics.Tracker
	sink       EventSink
	state      State
}

func (e *Engine) newRun(seed *url.URL, sink EventSink, tracker *metrics.Tracker) *run {
	if sink == nil {
		sink = func(Event) {}
	}
	return &run{
		engine:     e,
		seed:       seed,
		classifier: NewClassifier(TargetDomain(seed), e.opts.ExcludedDomains),
		frontier:   NewFrontier(),
		results:    memory.NewResults(),
		tracker:    tracker,
		sink:       sink,
		state:      StateSeeded,
	}
}

// Crawl scans the site behind rawSeed until no same-domain page is left,
// streaming events to sink, then publishes the report. Fetch failures are
// recorded and never abort the crawl; only a canceled ctx stops it early.
// tracker may be nil.
func (e *Engine) Crawl(ctx context.Context, rawSeed string, sink EventSink, tracker *metrics.Tracker) (*Summary, error) {
	seed, err := NormalizeSeed(rawSeed)
	if err != nil {
		return nil, err
	}

	r := e.newRun(seed, sink, tracker)
	started := time.Now()
	logrus.Infof("Crawl started: seed=%s domain=%s", seed, r.classifier.Domain())

	r.frontier.Enqueue(URLKey(seed))
	r.setState(StateRunning)

	for {
		if err := ctx.Err(); err != nil {
			logrus.Warnf("Crawl of %s interrupted after %d pages: %v", r.classifier.Domain(), r.frontier.VisitedCount(), err)
			return nil, fmt.Errorf("crawl interrupted: %w", err)
		}

		key, err := r.frontier.Dequeue()
		if errors.Is(err, ErrFrontierEmpty) {
			break
		}
		r.processPage(ctx, key)
	}

	r.setState(StateReporting)
	summary := &Summary{
		Domain:     r.classifier.Domain(),
		SeedURL:    seed.String(),
		StartedAt:  started,
		FinishedAt: time.Now(),
		Snapshot:   r.results.Snapshot(),
	}

	var publishErr error
	if e.publisher != nil {
		summary.Download, publishErr = e.publisher.Publish(ctx, *summary)
		if publishErr != nil {
			logrus.Errorf("Failed to publish report for %s: %v", summary.Domain, publishErr)
			r.emit(logEvent("%s Failed to generate report (%v)", iconError, publishErr))
			publishErr = fmt.Errorf("publish report: %w", publishErr)
		}
	}

	r.setState(StateDone)
	r.emit(Event{Kind: EventComplete, Message: CompleteMessage, Download: summary.Download})

	logrus.Infof("Crawl finished: domain=%s scanned=%d mailto=%d outbound=%d broken=%d in %v",
		summary.Domain, summary.Scanned, len(summary.Mailto), len(summary.Outbound), len(summary.Broken),
		summary.FinishedAt.Sub(started).Round(time.Millisecond))

	return summary, publishErr
}

func (r *run) setState(s State) {
	logrus.Debugf("Crawl %s: %s -> %s", r.classifier.Domain(), r.state, s)
	r.state = s
}

func (r *run) emit(ev Event) {
	r.sink(ev)
}
