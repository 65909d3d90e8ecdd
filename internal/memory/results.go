package memory

import (
	"sort"
	"sync"
)

// Results holds the link sets accumulated during a single crawl
type Results struct {
	broken   map[string]struct{}
	outbound map[string]struct{}
	mailto   map[string]struct{}
	scanned  int
	mu       sync.RWMutex
}

// Snapshot is an immutable, sorted copy of the accumulated results
type Snapshot struct {
	Mailto   []string
	Outbound []string
	Broken   []string
	Scanned  int
}

// NewResults creates an empty result set
func NewResults() *Results {
	return &Results{
		broken:   make(map[string]struct{}),
		outbound: make(map[string]struct{}),
		mailto:   make(map[string]struct{}),
	}
}

// AddBroken records a URL that returned 404 or failed to load.
// Returns true if the URL was not recorded before.
func (r *Results) AddBroken(key string) bool {
	return r.add(r.broken, key)
}

// AddOutbound records an external link. Returns true the first time a
// key is seen, which is the caller's signal to probe it.
func (r *Results) AddOutbound(key string) bool {
	return r.add(r.outbound, key)
}

// AddMailto records a mailto href pointing at a foreign domain
func (r *Results) AddMailto(href string) bool {
	return r.add(r.mailto, href)
}

func (r *Results) add(set map[string]struct{}, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := set[key]; exists {
		return false
	}
	set[key] = struct{}{}
	return true
}

// IsBroken reports whether key is in the broken set
func (r *Results) IsBroken(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.broken[key]
	return ok
}

// IncrementScanned bumps the successfully scanned page counter and returns the new value
func (r *Results) IncrementScanned() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scanned++
	return r.scanned
}

// GetStats returns current set sizes
func (r *Results) GetStats() (scanned, mailto, outbound, broken int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.scanned, len(r.mailto), len(r.outbound), len(r.broken)
}

// Snapshot copies every set into sorted slices
func (r *Results) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Snapshot{
		Mailto:   sortedKeys(r.mailto),
		Outbound: sortedKeys(r.outbound),
		Broken:   sortedKeys(r.broken),
		Scanned:  r.scanned,
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
