package notify

import (
	"sync"
	"time"
)

const dedupMaxEntries = 10000

// Deduplicator collapses repeated keys seen within a time window. Used to
// keep rapid repeated transitions from producing an alert storm.
type Deduplicator struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	window time.Duration
}

func NewDeduplicator(window time.Duration) *Deduplicator {
	return &Deduplicator{
		seen:   make(map[string]time.Time),
		window: window,
	}
}

// IsDuplicate reports whether key was already seen inside the window and
// records it as seen now otherwise.
func (d *Deduplicator) IsDuplicate(key string) bool {
	if key == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if at, exists := d.seen[key]; exists && time.Since(at) < d.window {
		return true
	}
	d.seen[key] = time.Now()

	// Keep the map bounded.
	if len(d.seen) > dedupMaxEntries {
		for k, at := range d.seen {
			if time.Since(at) > 2*d.window {
				delete(d.seen, k)
			}
		}
	}
	return false
}
