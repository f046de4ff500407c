// Package store persists renewal requests.
package store

import (
	"context"

	"campustrust/internal/renewal/models"
	id "campustrust/pkg/domain"
)

// Store is the persistence contract for renewal requests. Implementations
// return sentinel errors; the service translates them into domain errors.
type Store interface {
	// Create saves a new request. Returns sentinel.ErrConflict when the user
	// already has an open request.
	Create(ctx context.Context, r models.Request) error

	// Get returns the request by ID, or sentinel.ErrNotFound.
	Get(ctx context.Context, renewalID id.RenewalID) (models.Request, error)

	// Update rewrites an existing request, or sentinel.ErrNotFound.
	Update(ctx context.Context, r models.Request) error

	// FindOpenByUser returns the user's open request, or sentinel.ErrNotFound.
	FindOpenByUser(ctx context.Context, userID id.UserID) (models.Request, error)

	// ListByUser returns all requests for a user, newest first.
	ListByUser(ctx context.Context, userID id.UserID) ([]models.Request, error)
}
