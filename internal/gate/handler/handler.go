package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campustrust/internal/gate"
	"campustrust/internal/platform/metrics"
	"campustrust/internal/platform/middleware"
	"campustrust/internal/transport/http/shared"
	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
	"campustrust/pkg/requestcontext"
)

// Service defines the gate operations the handler needs.
type Service interface {
	CheckAccess(ctx context.Context, userID id.UserID, feature string, requiredScore int) (*gate.Decision, error)
}

// Handler serves the access check endpoint.
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

// Register attaches the gate routes. Device parsing runs here so gate audit
// events carry the client fingerprint.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Device)
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/verification/access/check", h.handleCheckAccess)
	})
}

type checkAccessRequest struct {
	Feature       string `json:"feature"`
	RequiredScore int    `json:"required_score,omitempty"`
}

func (h *Handler) handleCheckAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req checkAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	decision, err := h.service.CheckAccess(ctx, userID, req.Feature, req.RequiredScore)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "access check failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, decision)
}
