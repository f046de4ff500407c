package store

import (
	"context"
	"sort"
	"sync"

	"campustrust/internal/renewal/models"
	id "campustrust/pkg/domain"
	"campustrust/pkg/platform/sentinel"
)

// InMemoryStore keeps renewal requests in process memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[id.RenewalID]models.Request
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{requests: make(map[id.RenewalID]models.Request)}
}

func (s *InMemoryStore) Create(_ context.Context, r models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.requests {
		if existing.UserID == r.UserID && existing.State.Open() {
			return sentinel.ErrConflict
		}
	}
	s.requests[r.ID] = r
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, renewalID id.RenewalID) (models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[renewalID]
	if !ok {
		return models.Request{}, sentinel.ErrNotFound
	}
	return r, nil
}

func (s *InMemoryStore) Update(_ context.Context, r models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.requests[r.ID] = r
	return nil
}

func (s *InMemoryStore) FindOpenByUser(_ context.Context, userID id.UserID) (models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.requests {
		if r.UserID == userID && r.State.Open() {
			return r, nil
		}
	}
	return models.Request{}, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Request
	for _, r := range s.requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
