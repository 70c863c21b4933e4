package memory

import (
	"context"
	"sync"

	audit "rezo/pkg/platform/audit"
)

// InMemoryStore keeps audit events in process memory, keyed by email. Default
// sink when no broker is configured; also used by publisher tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Email] = append(s.events[event.Email], event)
	return nil
}

// ListByEmail returns the events recorded for one address, oldest first.
func (s *InMemoryStore) ListByEmail(_ context.Context, email string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[email]...), nil
}

// ListAll returns all events across all addresses.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []audit.Event
	for _, events := range s.events {
		all = append(all, events...)
	}
	return all, nil
}
