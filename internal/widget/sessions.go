package widget

import (
	"context"
	"sync"
	"time"

	"bitbucket.org/crgw/booking-widget/internal/reservation"
	"bitbucket.org/crgw/booking-widget/internal/schema"
	"bitbucket.org/crgw/booking-widget/internal/search"
	"bitbucket.org/crgw/booking-widget/internal/session"
	"github.com/rs/zerolog"
)

// SessionHeader carries the widget instance id. Each loaded widget page is
// one session; requests without the header fall back to their correlation
// id and get a throwaway session.
const SessionHeader = "x-widget-session"

const sessionTTL = 30 * time.Minute

// ReservationStore matches the gateway client's write surface.
type ReservationStore interface {
	Mutate(ctx context.Context, action string, payload any) schema.Outcome
}

// Session is the server-held state of one widget instance: filter and range,
// the vehicle open in the detail view, the newest accepted search result and
// the session's own reservation workflow. The submit guard lives here, per
// session, never across customers.
type Session struct {
	mu           sync.Mutex
	state        session.State
	latest       search.Latest
	reservations *reservation.Workflow
}

func (s *Session) Reservations() *reservation.Workflow {
	return s.reservations
}

// BeginSearch records the requested range and filter and hands out the
// generation for the search about to run.
func (s *Session) BeginSearch(rng session.DateRange, filter session.TypeFilter) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Range = rng
	s.state.Filter = filter

	return s.latest.Begin()
}

// AcceptSearch keeps the result unless a newer search finished first. It
// reports whether the result became the session's displayed one.
func (s *Session) AcceptSearch(generation uint64, result schema.SearchResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.latest.Accept(generation, result) {
		return false
	}

	s.state = s.state.AcceptResult(result)

	return true
}

func (s *Session) SelectVehicle(v schema.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.SelectVehicle(v)
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.ClearSelection()
}

// Reset returns the session to its defaults, the widget's state after a
// confirmed booking.
func (s *Session) Reset(today time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.Reset(today)
}

// Snapshot returns a copy safe to render.
func (s *Session) Snapshot() session.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

// Sessions hands out the per-widget-instance sessions. Idle sessions are
// dropped after sessionTTL, abandoning a page simply forgets its state.
type Sessions struct {
	mu      sync.Mutex
	store   ReservationStore
	logger  *zerolog.Logger
	entries map[string]*sessionEntry
	now     func() time.Time
}

func NewSessions(store ReservationStore, logger *zerolog.Logger) *Sessions {
	return &Sessions{
		store:   store,
		logger:  logger,
		entries: map[string]*sessionEntry{},
		now:     time.Now,
	}
}

// Resolve returns the session for one widget instance, creating it on first
// sight and sweeping expired ones on the way.
func (s *Sessions) Resolve(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	for key, entry := range s.entries {
		if now.Sub(entry.lastSeen) > sessionTTL {
			delete(s.entries, key)
		}
	}

	entry, found := s.entries[id]
	if !found {
		entry = &sessionEntry{
			session: &Session{
				state:        session.Default(now),
				reservations: reservation.New(s.store, s.logger),
			},
		}
		s.entries[id] = entry
	}

	entry.lastSeen = now

	return entry.session
}
