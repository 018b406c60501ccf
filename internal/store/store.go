// Package store holds the bounded, deduplicated in-memory event
// collection. It is the only long-lived mutable shared state in the
// system: the orchestrator writes after each refresh cycle while the API
// layer reads concurrently, so a single mutex guards the map. Operations
// are at worst O(store size) and the store is bounded, so contention is
// a non-issue.
package store

import (
	"sort"
	"sync"

	"github.com/ppiankov/crisiswatch/internal/model"
)

const defaultMaxEvents = 500

// Store is a bounded id→event map with newest-first retrieval.
type Store struct {
	mu     sync.Mutex
	events map[string]model.Event
	max    int
}

// New creates an empty store holding at most max events.
func New(max int) *Store {
	if max <= 0 {
		max = defaultMaxEvents
	}
	return &Store{
		events: make(map[string]model.Event, max),
		max:    max,
	}
}

// Add inserts the event if its id is not already present and reports
// whether it was newly inserted. This id check is the cheap first line
// of defense against exact re-fetch duplicates, beneath the fuzzy dedup
// pass the orchestrator runs.
func (s *Store) Add(ev model.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[ev.ID]; exists {
		return false
	}
	s.events[ev.ID] = ev
	s.trim()
	return true
}

// AddMany applies Add to each event and returns the count of new
// insertions.
func (s *Store) AddMany(events []model.Event) int {
	added := 0
	for _, ev := range events {
		if s.Add(ev) {
			added++
		}
	}
	return added
}

// GetAll returns a fresh snapshot of all events (or only geolocated ones)
// sorted newest-first by timestamp.
func (s *Store) GetAll(locatedOnly bool) []model.Event {
	s.mu.Lock()
	out := make([]model.Event, 0, len(s.events))
	for _, ev := range s.events {
		if locatedOnly && !ev.HasLocation() {
			continue
		}
		out = append(out, ev)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// Count returns the number of stored events.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Clear removes everything.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string]model.Event, s.max)
}

// trim evicts oldest-by-timestamp entries until the store is back at its
// limit. Caller must hold the lock.
func (s *Store) trim() {
	over := len(s.events) - s.max
	if over <= 0 {
		return
	}

	ids := make([]string, 0, len(s.events))
	for id := range s.events {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.events[ids[i]].Timestamp.Before(s.events[ids[j]].Timestamp)
	})
	for _, id := range ids[:over] {
		delete(s.events, id)
	}
}
