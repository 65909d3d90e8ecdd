package crawler

import (
	"errors"
	"sync"
)

// ErrFrontierEmpty signals that no URLs remain to be fetched
var ErrFrontierEmpty = errors.New("frontier is empty")

// Frontier is a FIFO (breadth-first) queue of URL keys deduplicated
// against both the queued and the visited sets
type Frontier struct {
	mu      sync.Mutex
	items   []string
	queued  map[string]bool
	visited map[string]bool
}

// NewFrontier creates an empty frontier
func NewFrontier() *Frontier {
	return &Frontier{
		items:   make([]string, 0),
		queued:  make(map[string]bool),
		visited: make(map[string]bool),
	}
}

// Enqueue appends key unless it is already queued or visited.
// Returns true if added, false if duplicate.
func (f *Frontier) Enqueue(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.visited[key] || f.queued[key] {
		return false
	}

	f.queued[key] = true
	f.items = append(f.items, key)
	return true
}

// Dequeue removes and returns the earliest enqueued key
func (f *Frontier) Dequeue() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.items) == 0 {
		return "", ErrFrontierEmpty
	}

	key := f.items[0]
	f.items[0] = ""
	f.items = f.items[1:]
	delete(f.queued, key)
	return key, nil
}

// MarkVisited records that key has been fetched, successfully or not
func (f *Frontier) MarkVisited(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited[key] = true
}

// Visited reports whether key has been fetched
func (f *Frontier) Visited(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited[key]
}

// Remaining returns the number of queued, not yet fetched keys
func (f *Frontier) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// VisitedCount returns the number of fetched keys
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}
