package search

import (
	"sync"

	"bitbucket.org/crgw/booking-widget/internal/schema"
)

// Latest keeps only the newest search result authoritative. The widget can
// fire overlapping searches from the search button; underlying requests are
// not cancelled, a superseded call's result is simply discarded when it
// arrives after a newer one was accepted.
type Latest struct {
	mu         sync.Mutex
	generation uint64
	accepted   uint64
	result     *schema.SearchResult
}

// Begin hands out a generation for a search about to start. Generations are
// strictly increasing per tracker.
func (l *Latest) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.generation++
	return l.generation
}

// Accept records the result unless a newer generation was already accepted.
// It reports whether the result became the displayed one.
func (l *Latest) Accept(generation uint64, result schema.SearchResult) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if generation <= l.accepted {
		return false
	}

	l.accepted = generation
	l.result = &result
	return true
}

// Result is nil until any search was accepted.
func (l *Latest) Result() *schema.SearchResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.result
}
