package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/tartampluch/go-calendar/internal/config"
)

// Store is the in-memory, append-only event collection of a session.
// The UI goroutine writes to it while the feed server reads snapshots.
// The zero value is an empty store using random UUIDs.
type Store struct {
	mu     sync.RWMutex
	events []Event
	ids    map[string]struct{}

	// NewID generates event ids. Tests replace it for determinism.
	// A nil NewID falls back to engine.NewID.
	NewID func() string
}

// NewStore creates an empty store using random UUIDs.
func NewStore() *Store {
	return &Store{
		ids:   make(map[string]struct{}),
		NewID: NewID,
	}
}

// Add validates in, assigns an id and appends the event.
func (s *Store) Add(in EventInput) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, err := NewEvent(in, s.NewID)
	if err != nil {
		return Event{}, err
	}
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, dup := s.ids[ev.ID]; dup {
		return Event{}, fmt.Errorf("%w: %s", ErrDuplicateID, ev.ID)
	}

	s.ids[ev.ID] = struct{}{}
	s.events = append(s.events, ev)

	slog.Debug(config.MsgEventAdded,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyEventID, ev.ID,
		config.LogKeyStart, ev.Start,
		config.LogKeyCount, len(s.events),
	)
	return ev, nil
}

// All returns a copy of every event in insertion order.
func (s *Store) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// EventsOn returns the events of day's calendar date sorted by start.
func (s *Store) EventsOn(day time.Time) []Event {
	return EventsOn(s.All(), day)
}

// Grid builds the month grid over a snapshot of the store.
func (s *Store) Grid(year, month int, now time.Time) []Day {
	return BuildGrid(year, month, s.All(), now)
}
