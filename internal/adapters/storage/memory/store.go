// Package memory provides an in-memory conversation store for development
// and tests. It is NOT persistent across restarts.
package memory

import (
	"context"
	"sync"

	"insuragent/internal/domain"
)

type Store struct {
	mu            sync.RWMutex
	conversations map[domain.ThreadID]*domain.Conversation
}

func NewStore() *Store {
	return &Store{
		conversations: make(map[domain.ThreadID]*domain.Conversation),
	}
}

// Get returns a deep copy so callers can mutate a turn in flight without
// touching the stored record until Put commits it.
func (s *Store) Get(ctx context.Context, id domain.ThreadID) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, domain.ErrThreadNotFound
	}
	return conv.Clone(), nil
}

func (s *Store) Put(ctx context.Context, conv *domain.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[conv.ThreadID] = conv.Clone()
	return nil
}

func (s *Store) ListThreadIDs(ctx context.Context) ([]domain.ThreadID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ThreadID, 0, len(s.conversations))
	for id := range s.conversations {
		out = append(out, id)
	}
	return out, nil
}
