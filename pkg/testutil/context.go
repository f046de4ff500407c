package testutil

import (
	"context"
	"net/http"
	"time"

	id "campustrust/pkg/domain"
	"campustrust/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If the userID is not a valid UUID, it will not be added to the context.
func WithUserID(req *http.Request, userID string) *http.Request {
	if parsed, err := id.ParseUserID(userID); err == nil {
		return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
	}
	return req
}

// WithRequestTime pins the request-scoped clock so handlers compute scores and
// expiration against a fixed instant.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}

// Ctx returns a context with a user ID and a pinned clock, the shape service
// methods see after the middleware chain has run.
func Ctx(userID id.UserID, at time.Time) context.Context {
	ctx := requestcontext.WithUserID(context.Background(), userID)
	return requestcontext.WithTime(ctx, at)
}
