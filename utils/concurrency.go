package utils

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum interval between successive requests to the
// source site. Resolution is strictly sequential, so a single shared gate
// is all the scheduling this pipeline needs.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewPacer creates a Pacer with the given minimum interval in milliseconds.
func NewPacer(intervalMs int) *Pacer {
	return &Pacer{interval: time.Duration(intervalMs) * time.Millisecond}
}

// Wait blocks until at least the configured interval has passed since the
// previous call. It returns early with the context error on cancellation.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	next := p.last.Add(p.interval)
	var remaining time.Duration
	if next.After(now) {
		remaining = next.Sub(now)
		p.last = next
	} else {
		p.last = now
	}
	p.mu.Unlock()

	if remaining <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// URLSet is a thread-safe set for tracking URLs seen within a crawl run.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Contains returns true if the URL has already been seen.
func (s *URLSet) Contains(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[url]
	return exists
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
