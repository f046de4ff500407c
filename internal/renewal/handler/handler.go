package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campustrust/internal/platform/metrics"
	"campustrust/internal/platform/middleware"
	"campustrust/internal/profile"
	"campustrust/internal/renewal/models"
	"campustrust/internal/transport/http/shared"
	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
	"campustrust/pkg/requestcontext"
)

// Service defines the renewal operations the handler needs.
type Service interface {
	Submit(ctx context.Context, userID id.UserID, renewalType models.Type, methods []id.Method, reason string) (*models.Request, error)
	Review(ctx context.Context, renewalID id.RenewalID, reviewerID string, approve bool, note string) (*models.Request, error)
	Get(ctx context.Context, renewalID id.RenewalID, userID id.UserID) (*models.Request, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]models.Request, error)
}

// StatusSource provides the expiration view for the my-expiration endpoint.
type StatusSource interface {
	Status(ctx context.Context, userID id.UserID) (*profile.Status, error)
}

// Handler serves the renewal endpoints.
type Handler struct {
	logger       *slog.Logger
	service      Service
	status       StatusSource
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
	adminToken   string
}

func New(service Service, status StatusSource, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator, adminToken string) *Handler {
	return &Handler{
		logger:       logger,
		service:      service,
		status:       status,
		metrics:      m,
		jwtValidator: jwtValidator,
		adminToken:   adminToken,
	}
}

// Register attaches the renewal routes. Review is admin-only.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/verification/renewal", h.handleSubmit)
		r.Get("/verification/renewal", h.handleList)
		r.Get("/verification/renewal/my-expiration", h.handleMyExpiration)
		r.Get("/verification/renewal/{renewalID}", h.handleGet)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
		r.Post("/verification/renewal/{renewalID}/review", h.handleReview)
	})
}

type submitRequest struct {
	Type    string   `json:"type"`
	Methods []string `json:"methods,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	renewalType, err := models.ParseType(req.Type)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	methods := make([]id.Method, 0, len(req.Methods))
	for _, m := range req.Methods {
		parsed, err := id.ParseMethod(m)
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		methods = append(methods, parsed)
	}

	request, err := h.service.Submit(ctx, userID, renewalType, methods, req.Reason)
	if err != nil {
		h.logWarn(ctx, "renewal submission rejected", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, request)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	requests, err := h.service.ListByUser(ctx, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"renewals": requests})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	renewalID, err := id.ParseRenewalID(chi.URLParam(r, "renewalID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	request, err := h.service.Get(ctx, renewalID, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, request)
}

// handleMyExpiration returns just the expiration slice of the status so the
// renewal UI can show what needs renewing without the full profile payload.
func (h *Handler) handleMyExpiration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	status, err := h.status.Status(ctx, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, status.Expiration)
}

type reviewRequest struct {
	ReviewerID string `json:"reviewer_id"`
	Approve    bool   `json:"approve"`
	Note       string `json:"note,omitempty"`
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	renewalID, err := id.ParseRenewalID(chi.URLParam(r, "renewalID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.ReviewerID == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "reviewer_id is required"))
		return
	}

	request, err := h.service.Review(ctx, renewalID, req.ReviewerID, req.Approve, req.Note)
	if err != nil {
		h.logWarn(ctx, "renewal review failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, request)
}

func (h *Handler) logWarn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}
