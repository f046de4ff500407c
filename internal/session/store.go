package session

import (
	"context"

	"campustrust/internal/session/models"
	id "campustrust/pkg/domain"
)

// Store persists intake sessions. Sessions are short-lived working state, so
// the in-memory implementation is the production default.
type Store interface {
	// Create saves a new session.
	Create(ctx context.Context, sess models.Session) error

	// Get returns the session by ID, or sentinel.ErrNotFound.
	Get(ctx context.Context, sessionID id.SessionID) (models.Session, error)

	// Update rewrites an existing session, or sentinel.ErrNotFound.
	Update(ctx context.Context, sess models.Session) error

	// FindActiveByUser returns the user's in-progress session, or
	// sentinel.ErrNotFound.
	FindActiveByUser(ctx context.Context, userID id.UserID) (models.Session, error)
}
