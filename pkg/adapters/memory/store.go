package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/ports"
)

// Store implements ports.DialogStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.DialogSession
	mu   sync.RWMutex
}

var _ ports.DialogStore = (*Store)(nil)

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.DialogSession),
	}
}

// Save persists a copy of the session.
func (s *Store) Save(ctx context.Context, id string, session *domain.DialogSession) error {
	copied := session.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = copied
	return nil
}

// Load returns a copy so callers can't mutate the stored session through the pointer.
func (s *Store) Load(ctx context.Context, id string) (*domain.DialogSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the active session IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
