package store

import (
	"context"
	"sync"
	"time"

	"rezo/pkg/platform/sentinel"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// InMemory keeps verification codes in process memory. Used by unit tests and
// local development without Redis. Expired entries are dropped lazily on read.
type InMemory struct {
	mu        sync.Mutex
	codes     map[string]memoryEntry
	cooldowns map[string]time.Time
	now       func() time.Time
}

// NewInMemory constructs an empty in-memory code store.
func NewInMemory() *InMemory {
	return &InMemory{
		codes:     make(map[string]memoryEntry),
		cooldowns: make(map[string]time.Time),
		now:       time.Now,
	}
}

// NewInMemoryWithClock constructs an in-memory store with an injectable clock
// for expiry tests.
func NewInMemoryWithClock(now func() time.Time) *InMemory {
	s := NewInMemory()
	s.now = now
	return s
}

func (s *InMemory) SaveCode(ctx context.Context, email, codeHash string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = memoryEntry{value: codeHash, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *InMemory) GetCode(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	if s.now().After(entry.expiresAt) {
		delete(s.codes, email)
		return "", sentinel.ErrNotFound
	}
	return entry.value, nil
}

func (s *InMemory) DeleteCode(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
	return nil
}

func (s *InMemory) TryAcquireCooldown(ctx context.Context, email string, d time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if until, ok := s.cooldowns[email]; ok && now.Before(until) {
		return false, nil
	}
	s.cooldowns[email] = now.Add(d)
	return true, nil
}
