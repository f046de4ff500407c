package session

import (
	"context"
	"sync"

	"campustrust/internal/session/models"
	id "campustrust/pkg/domain"
	"campustrust/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in process memory.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]models.Session
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[id.SessionID]models.Session)}
}

func (s *InMemoryStore) Create(_ context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = cloneSession(sess)
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, sessionID id.SessionID) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return models.Session{}, sentinel.ErrNotFound
	}
	return cloneSession(sess), nil
}

func (s *InMemoryStore) Update(_ context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.sessions[sess.ID] = cloneSession(sess)
	return nil
}

func (s *InMemoryStore) FindActiveByUser(_ context.Context, userID id.UserID) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		if sess.UserID == userID && sess.State == models.StateInProgress {
			return cloneSession(sess), nil
		}
	}
	return models.Session{}, sentinel.ErrNotFound
}

func cloneSession(sess models.Session) models.Session {
	steps := make([]models.Step, len(sess.Steps))
	copy(steps, sess.Steps)
	sess.Steps = steps
	return sess
}
