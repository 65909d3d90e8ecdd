package crawler

import (
	"context"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// Response is the part of an HTTP response the crawler looks at
type Response struct {
	StatusCode int
	Body       []byte
}

// Fetcher performs a GET bounded by timeout
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*Response, error)
}

// CollyFetcher fetches pages with a fresh colly collector per request so
// that concurrent crawls never share timeouts or callbacks.
type CollyFetcher struct {
	userAgent string
	transport http.RoundTripper
}

// NewCollyFetcher creates a fetcher. A nil transport uses a dedicated
// clone of http.DefaultTransport shared by every request.
func NewCollyFetcher(userAgent string, transport http.RoundTripper) *CollyFetcher {
	if transport == nil {
		transport = http.DefaultTransport.(*http.Transport).Clone()
	}
	return &CollyFetcher{userAgent: userAgent, transport: transport}
}

// Fetch returns any status code as a Response; only transport failures
// (timeouts, DNS, refused connections, bad URLs) are errors.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*Response, error) {
	collector := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
		colly.IgnoreRobotsTxt(),
		colly.StdlibContext(ctx),
	)
	collector.WithTransport(f.transport)
	collector.SetRequestTimeout(timeout)

	var resp *Response
	collector.OnResponse(func(r *colly.Response) {
		resp = &Response{StatusCode: r.StatusCode, Body: r.Body}
	})

	if err := collector.Visit(rawURL); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, &FetchError{URL: rawURL}
	}
	return resp, nil
}

// FetchError reports a request that completed without producing a response
type FetchError struct {
	URL string
}

func (e *FetchError) Error() string {
	return "no response received for " + e.URL
}
