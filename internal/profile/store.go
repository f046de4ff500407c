package profile

import (
	"context"
	"time"

	"campustrust/internal/profile/models"
	id "campustrust/pkg/domain"
)

// Store persists method completions and per-user grace markers. Implementations
// return sentinel errors; the service translates them into domain errors.
type Store interface {
	// GetProfile loads the full completion set for a user. Returns
	// sentinel.ErrNotFound when the user has no completions at all.
	GetProfile(ctx context.Context, userID id.UserID) (*models.Profile, error)

	// UpsertCompletion writes one completion, replacing any prior completion
	// for the same (user, method). A write whose CompletedAt is older than the
	// stored one loses the race and gets sentinel.ErrConflict.
	UpsertCompletion(ctx context.Context, c models.MethodCompletion) error

	// UpdateCompletionStatus rewrites the status of an existing completion.
	// Returns sentinel.ErrNotFound when no completion exists.
	UpdateCompletionStatus(ctx context.Context, userID id.UserID, method id.Method, status models.CompletionStatus) error

	// SetGraceExpiry pins or clears the user's grace deadline.
	SetGraceExpiry(ctx context.Context, userID id.UserID, at *time.Time) error

	// ListUserIDs returns every user with at least one completion. Used by the
	// expiration sweeper.
	ListUserIDs(ctx context.Context) ([]id.UserID, error)
}
