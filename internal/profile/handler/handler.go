package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campustrust/internal/platform/metrics"
	"campustrust/internal/platform/middleware"
	"campustrust/internal/profile"
	"campustrust/internal/transport/http/shared"
	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
	"campustrust/pkg/requestcontext"
)

// Service defines the status operations the handler needs.
type Service interface {
	Status(ctx context.Context, userID id.UserID) (*profile.Status, error)
}

// Handler serves the verification status endpoint.
type Handler struct {
	logger       *slog.Logger
	service      Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

func New(service Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register attaches the status routes. The shared middleware chain lives on
// the parent router; only auth is enforced here.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Get("/verification/status", h.handleStatus)
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	status, err := h.service.Status(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute verification status",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, status)
}
