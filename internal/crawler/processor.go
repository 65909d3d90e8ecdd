package crawler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// processPage fetches one frontier key, walks its anchors and reports progress
func (r *run) processPage(ctx context.Context, key string) {
	resp, err := r.fetch(ctx, key, r.engine.opts.PageTimeout)
	r.frontier.MarkVisited(key)

	if err != nil {
		logrus.Debugf("Page fetch failed for %s: %v", key, err)
		r.markBroken(key)
		r.pageFailed()
		r.emit(logEvent("%s Failed to crawl: %s (%v)", iconError, key, err))
		return
	}
	if resp.StatusCode == http.StatusNotFound {
		r.markBroken(key)
		r.pageFailed()
		r.emit(logEvent("%s 404 Not Found: %s", iconError, key))
		return
	}

	r.emit(logEvent("%s Scanned: %s", iconOK, key))

	page, err := url.Parse(key)
	if err != nil {
		// keys come from url.URL.String, so this only guards against misuse
		logrus.Warnf("Skipping links of unparseable page %s: %v", key, err)
	} else {
		hrefs, err := r.engine.extractor.ExtractHrefs(resp.Body)
		if err != nil {
			logrus.Warnf("Failed to extract links from %s: %v", key, err)
		}
		for _, href := range hrefs {
			r.handleLink(ctx, page, href)
		}
	}

	scanned := r.results.IncrementScanned()
	if r.tracker != nil {
		r.tracker.IncrementPagesScanned()
	}
	r.emit(progressEvent(scanned, r.frontier.Remaining()))
}

// handleLink applies the classification of a single href
func (r *run) handleLink(ctx context.Context, page *url.URL, href string) {
	c := r.classifier.Classify(page, href)

	switch c.Kind {
	case LinkInternal:
		r.frontier.Enqueue(c.Target)

	case LinkMailto:
		if r.results.AddMailto(c.Target) {
			if r.tracker != nil {
				r.tracker.IncrementMailtoFound()
			}
			r.emit(logEvent("%s Mailto: %s", iconMail, c.Target))
		}

	case LinkExternal:
		if !r.results.AddOutbound(c.Target) {
			return
		}
		r.emit(logEvent("%s Outbound: %s", iconOutbnd, c.Target))
		r.probe(ctx, c.Target)
	}
}

// probe checks an external link exactly once
func (r *run) probe(ctx context.Context, key string) {
	if r.tracker != nil {
		r.tracker.IncrementOutboundProbed()
	}

	resp, err := r.fetch(ctx, key, r.engine.opts.ProbeTimeout)
	switch {
	case err != nil:
		r.markBroken(key)
		r.emit(logEvent("%s Failed to load: %s (%v)", iconError, key, err))
	case resp.StatusCode == http.StatusNotFound:
		r.markBroken(key)
		r.emit(logEvent("%s 404 External: %s", iconError, key))
	}
}

func (r *run) fetch(ctx context.Context, key string, timeout time.Duration) (*Response, error) {
	start := time.Now()
	resp, err := r.engine.fetcher.Fetch(ctx, key, timeout)
	if r.tracker != nil {
		r.tracker.RecordFetchTime(time.Since(start))
	}
	return resp, err
}

func (r *run) markBroken(key string) {
	if r.results.AddBroken(key) && r.tracker != nil {
		r.tracker.IncrementBrokenFound()
	}
}

func (r *run) pageFailed() {
	if r.tracker != nil {
		r.tracker.IncrementPagesFailed()
	}
}
