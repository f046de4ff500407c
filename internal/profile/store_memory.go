package profile

import (
	"context"
	"sync"
	"time"

	"campustrust/internal/profile/models"
	id "campustrust/pkg/domain"
	"campustrust/pkg/platform/sentinel"
)

// InMemoryStore keeps completions in process memory. Suitable for tests and
// local development; writes for the same user are serialized by the mutex so
// concurrent submissions resolve deterministically.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[id.UserID]*memoryProfile
}

type memoryProfile struct {
	completions    map[id.Method]models.MethodCompletion
	graceExpiresAt *time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[id.UserID]*memoryProfile)}
}

func (s *InMemoryStore) GetProfile(_ context.Context, userID id.UserID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	out := &models.Profile{
		UserID:      userID,
		Completions: make(map[id.Method]models.MethodCompletion, len(p.completions)),
	}
	for m, c := range p.completions {
		out.Completions[m] = c
	}
	if p.graceExpiresAt != nil {
		at := *p.graceExpiresAt
		out.GraceExpiresAt = &at
	}
	return out, nil
}

func (s *InMemoryStore) UpsertCompletion(_ context.Context, c models.MethodCompletion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[c.UserID]
	if !ok {
		p = &memoryProfile{completions: make(map[id.Method]models.MethodCompletion)}
		s.profiles[c.UserID] = p
	}
	if existing, ok := p.completions[c.MethodID]; ok && existing.CompletedAt.After(c.CompletedAt) {
		return sentinel.ErrConflict
	}
	p.completions[c.MethodID] = c
	return nil
}

func (s *InMemoryStore) UpdateCompletionStatus(_ context.Context, userID id.UserID, method id.Method, status models.CompletionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	c, ok := p.completions[method]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.Status = status
	p.completions[method] = c
	return nil
}

func (s *InMemoryStore) SetGraceExpiry(_ context.Context, userID id.UserID, at *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if at == nil {
		p.graceExpiresAt = nil
		return nil
	}
	v := *at
	p.graceExpiresAt = &v
	return nil
}

func (s *InMemoryStore) ListUserIDs(_ context.Context) ([]id.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]id.UserID, 0, len(s.profiles))
	for uid := range s.profiles {
		out = append(out, uid)
	}
	return out, nil
}
