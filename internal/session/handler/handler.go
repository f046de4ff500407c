package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campustrust/internal/platform/metrics"
	"campustrust/internal/platform/middleware"
	"campustrust/internal/session"
	"campustrust/internal/session/models"
	"campustrust/internal/transport/http/shared"
	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
	"campustrust/pkg/requestcontext"
)

// Service defines the session operations the handler needs.
type Service interface {
	Start(ctx context.Context, userID id.UserID) (*models.Session, error)
	Get(ctx context.Context, sessionID id.SessionID, userID id.UserID) (*models.Session, error)
	SubmitStep(ctx context.Context, sessionID id.SessionID, userID id.UserID, method id.Method, input session.StepInput) (*session.StepResult, error)
	Skip(ctx context.Context, sessionID id.SessionID, userID id.UserID, method id.Method) (*models.Session, error)
}

// Handler serves the intake wizard endpoints.
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

// Register attaches the intake wizard routes.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/verification/session", h.handleStart)
		r.Get("/verification/session/{sessionID}", h.handleGet)
		r.Post("/verification/session/{sessionID}/steps", h.handleSubmitStep)
		r.Post("/verification/session/{sessionID}/skip", h.handleSkip)
	})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	sess, err := h.service.Start(ctx, userID)
	if err != nil {
		h.logWarn(ctx, "failed to start session", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, sess)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	sess, err := h.service.Get(ctx, sessionID, requestcontext.UserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sess)
}

type submitStepRequest struct {
	Method string            `json:"method"`
	Input  session.StepInput `json:"input"`
}

func (h *Handler) handleSubmitStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req submitStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	method, err := id.ParseMethod(req.Method)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.service.SubmitStep(ctx, sessionID, requestcontext.UserID(ctx), method, req.Input)
	if err != nil {
		h.logWarn(ctx, "step submission failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

type skipRequest struct {
	Method string `json:"method"`
}

func (h *Handler) handleSkip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, err := id.ParseSessionID(chi.URLParam(r, "sessionID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req skipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	method, err := id.ParseMethod(req.Method)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	sess, err := h.service.Skip(ctx, sessionID, requestcontext.UserID(ctx), method)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) logWarn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}
