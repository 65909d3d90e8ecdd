package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrEmptySeed is returned when the crawl request carries no URL
var ErrEmptySeed = errors.New("seed URL is required")

// NormalizeSeed turns user input into an absolute URL, defaulting to https
func NormalizeSeed(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptySeed
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("seed URL %q has no host", raw)
	}
	return parsed, nil
}

// NormalizeHost lowercases a host and strips a leading "www."
func NormalizeHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// TargetDomain is the normalized host every classification is relative to
func TargetDomain(seed *url.URL) string {
	return NormalizeHost(seed.Host)
}

// URLKey canonicalizes u for deduplication: fragment removed, host normalized.
// u is not modified.
func URLKey(u *url.URL) string {
	key := *u
	key.Fragment = ""
	key.RawFragment = ""
	key.Host = NormalizeHost(key.Host)
	return key.String()
}

// IsExcluded reports whether host contains any of the excluded substrings
func IsExcluded(host string, excluded []string) bool {
	for _, pattern := range excluded {
		if strings.Contains(host, pattern) {
			return true
		}
	}
	return false
}
