// Package session runs the verification intake wizard: an ordered walk
// through the method steps, collecting evidence and recording completions as
// each check passes.
package session

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"campustrust/internal/platform/metrics"
	profilemodels "campustrust/internal/profile/models"
	"campustrust/internal/registry"
	"campustrust/internal/scoring"
	"campustrust/internal/session/evidence"
	"campustrust/internal/session/models"
	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
	audit "campustrust/pkg/platform/audit"
	"campustrust/pkg/platform/sentinel"
	"campustrust/pkg/requestcontext"
)

// Profiles is the slice of the profile service the wizard needs.
type Profiles interface {
	Profile(ctx context.Context, userID id.UserID) (*profilemodels.Profile, error)
	RecordCompletion(ctx context.Context, c profilemodels.MethodCompletion) error
}

// StepInput carries the evidence for one step submission. Which fields
// matter depends on the step's method.
type StepInput struct {
	Action      string   `json:"action,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Code        string   `json:"code,omitempty"`
	DocumentRef string   `json:"document_ref,omitempty"`
	ProfileURL  string   `json:"profile_url,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// Step submission actions for the challenge/confirm methods.
const (
	ActionSendCode   = "send_code"
	ActionVerifyCode = "verify_code"
)

// StepResult reports what one submission did. NewScore carries the score
// recomputed after a verified step, so the wizard can show progress without
// a second round trip.
type StepResult struct {
	Session       *models.Session `json:"session"`
	ChallengeSent bool            `json:"challenge_sent,omitempty"`
	Verified      bool            `json:"verified,omitempty"`
	NewScore      int             `json:"new_score,omitempty"`

	reference string
}

// Service orchestrates intake sessions.
type Service struct {
	store     Store
	reg       *registry.Registry
	profiles  Profiles
	verifiers evidence.Verifiers
	logger    *slog.Logger
	metrics   *metrics.Metrics
	audit     audit.Emitter
	tracer    trace.Tracer
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAudit(emitter audit.Emitter) Option {
	return func(s *Service) { s.audit = emitter }
}

func NewService(store Store, reg *registry.Registry, profiles Profiles, verifiers evidence.Verifiers, opts ...Option) *Service {
	s := &Service{
		store:     store,
		reg:       reg,
		profiles:  profiles,
		verifiers: verifiers,
		logger:    slog.Default(),
		tracer:    otel.Tracer("campustrust/session"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens an intake session for the user, or resumes the in-progress
// one. Steps for methods that already contribute to the score start
// complete, so a returning user only sees what is left.
func (s *Service) Start(ctx context.Context, userID id.UserID) (*models.Session, error) {
	if existing, err := s.store.FindActiveByUser(ctx, userID); err == nil {
		return &existing, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find active session")
	}

	p, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	completions := make([]profilemodels.MethodCompletion, 0, len(p.Completions))
	for _, c := range p.Completions {
		completions = append(completions, c)
	}
	contributing := scoring.Contributing(s.reg, completions, now)

	steps := make([]models.Step, 0, len(s.reg.All()))
	for _, m := range s.reg.All() {
		state := models.StepPending
		if contributing[m.ID] {
			state = models.StepComplete
		}
		steps = append(steps, models.Step{
			Method:   m.ID,
			Required: m.Required,
			Effort:   m.Effort,
			State:    state,
		})
	}

	sess := models.Session{
		ID:        id.NewSessionID(),
		UserID:    userID,
		State:     models.StateInProgress,
		Steps:     steps,
		CreatedAt: now,
		UpdatedAt: now,
	}
	sess.Advance()
	if sess.State == models.StateComplete {
		// Every required method already contributes; nothing to walk through.
		return nil, dErrors.New(dErrors.CodeInvalidState, "all required verification methods are already complete")
	}

	if err := s.store.Create(ctx, sess); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save session")
	}
	audit.Log(ctx, s.logger, s.audit, audit.Event{
		UserID:  userID,
		Subject: sess.ID.String(),
		Action:  string(audit.EventSessionStarted),
	},
		"session_id", sess.ID.String(),
	)
	return &sess, nil
}

// Get returns a session, restricted to its owner.
func (s *Service) Get(ctx context.Context, sessionID id.SessionID, userID id.UserID) (*models.Session, error) {
	sess, err := s.loadOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// SubmitStep checks the evidence for one step. A passing check records the
// completion and advances to the next unresolved step; a failing check
// leaves the wizard exactly where it was.
func (s *Service) SubmitStep(ctx context.Context, sessionID id.SessionID, userID id.UserID, method id.Method, input StepInput) (*StepResult, error) {
	ctx, span := s.tracer.Start(ctx, "session.SubmitStep",
		trace.WithAttributes(attribute.String("method", method.String())))
	defer span.End()

	sess, err := s.loadOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.State != models.StateInProgress {
		return nil, dErrors.New(dErrors.CodeInvalidState, "session is not in progress")
	}
	idx, err := sess.StepIndex(method)
	if err != nil {
		return nil, err
	}
	if sess.Steps[idx].State == models.StepComplete {
		return nil, dErrors.New(dErrors.CodeInvalidState, "step is already complete")
	}

	result, err := s.check(ctx, sess.UserID, method, input)
	if err != nil {
		s.recordStep(method, err)
		return nil, err
	}

	if result.ChallengeSent {
		sess.Steps[idx].State = models.StepChallenge
		sess.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.Update(ctx, sess); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save session")
		}
		if s.metrics != nil {
			s.metrics.StepsSubmitted.WithLabelValues(method.String(), "challenge").Inc()
		}
		result.Session = &sess
		return result, nil
	}

	err = s.profiles.RecordCompletion(ctx, profilemodels.MethodCompletion{
		UserID:      sess.UserID,
		MethodID:    method,
		CompletedAt: requestcontext.Now(ctx),
		EvidenceRef: result.reference,
		Status:      profilemodels.CompletionVerified,
	})
	if err != nil {
		return nil, err
	}

	sess.Steps[idx].State = models.StepComplete
	sess.UpdatedAt = requestcontext.Now(ctx)
	sess.Advance()
	if err := s.store.Update(ctx, sess); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save session")
	}

	if s.metrics != nil {
		s.metrics.StepsSubmitted.WithLabelValues(method.String(), "verified").Inc()
	}
	audit.Log(ctx, s.logger, s.audit, audit.Event{
		UserID: sess.UserID,
		Action: string(audit.EventMethodVerified),
		Method: method.String(),
	},
		"session_id", sess.ID.String(),
		"method", method.String(),
	)
	if sess.State == models.StateComplete {
		if s.metrics != nil {
			s.metrics.SessionsCompleted.Inc()
		}
		audit.Log(ctx, s.logger, s.audit, audit.Event{
			UserID:  sess.UserID,
			Subject: sess.ID.String(),
			Action:  string(audit.EventSessionCompleted),
		},
			"session_id", sess.ID.String(),
		)
	}

	updated, err := s.profiles.Profile(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}

	result.Session = &sess
	result.Verified = true
	result.NewScore = updated.Score
	return result, nil
}

// Skip marks an optional step skipped. Required steps cannot be skipped.
func (s *Service) Skip(ctx context.Context, sessionID id.SessionID, userID id.UserID, method id.Method) (*models.Session, error) {
	sess, err := s.loadOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.State != models.StateInProgress {
		return nil, dErrors.New(dErrors.CodeInvalidState, "session is not in progress")
	}
	idx, err := sess.StepIndex(method)
	if err != nil {
		return nil, err
	}
	if sess.Steps[idx].Required {
		return nil, dErrors.New(dErrors.CodeValidation, "required steps cannot be skipped")
	}
	if sess.Steps[idx].State == models.StepComplete {
		return nil, dErrors.New(dErrors.CodeInvalidState, "step is already complete")
	}

	sess.Steps[idx].State = models.StepSkipped
	sess.UpdatedAt = requestcontext.Now(ctx)
	sess.Advance()
	if err := s.store.Update(ctx, sess); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save session")
	}

	audit.Log(ctx, s.logger, s.audit, audit.Event{
		UserID: sess.UserID,
		Action: string(audit.EventStepSkipped),
		Method: method.String(),
	},
		"session_id", sess.ID.String(),
		"method", method.String(),
	)
	if sess.State == models.StateComplete && s.metrics != nil {
		s.metrics.SessionsCompleted.Inc()
	}
	return &sess, nil
}

func (s *Service) check(ctx context.Context, userID id.UserID, method id.Method, input StepInput) (*StepResult, error) {
	var (
		result evidence.Result
		err    error
	)
	switch method {
	case id.MethodUniversityEmail:
		if input.Action == ActionSendCode {
			if err := s.verifiers.Email.Challenge(ctx, input.Email); err != nil {
				return nil, err
			}
			return &StepResult{ChallengeSent: true}, nil
		}
		if input.Action != ActionVerifyCode {
			return nil, dErrors.New(dErrors.CodeValidation, "action must be send_code or verify_code")
		}
		result, err = s.verifiers.Email.Confirm(ctx, input.Email, input.Code)
	case id.MethodPhone:
		if input.Action == ActionSendCode {
			if err := s.verifiers.Phone.Challenge(ctx, input.Phone); err != nil {
				return nil, err
			}
			return &StepResult{ChallengeSent: true}, nil
		}
		if input.Action != ActionVerifyCode {
			return nil, dErrors.New(dErrors.CodeValidation, "action must be send_code or verify_code")
		}
		result, err = s.verifiers.Phone.Confirm(ctx, input.Phone, input.Code)
	case id.MethodStudentID:
		result, err = s.verifiers.Document.Analyze(ctx, input.DocumentRef)
	case id.MethodSocialMedia:
		result, err = s.verifiers.Social.Verify(ctx, input.ProfileURL)
	case id.MethodLocation:
		if input.Latitude == nil || input.Longitude == nil {
			return nil, dErrors.New(dErrors.CodeValidation, "latitude and longitude are required")
		}
		result, err = s.verifiers.Location.Verify(ctx, *input.Latitude, *input.Longitude)
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unsupported method")
	}
	if err != nil {
		if dErrors.Is(err, dErrors.CodeEvidenceRejected) {
			audit.Log(ctx, s.logger, s.audit, audit.Event{
				UserID: userID,
				Action: string(audit.EventEvidenceRejected),
				Method: method.String(),
				Reason: err.Error(),
			},
				"method", method.String(),
			)
		}
		return nil, err
	}
	return &StepResult{reference: result.Reference}, nil
}

func (s *Service) recordStep(method id.Method, err error) {
	if s.metrics == nil {
		return
	}
	result := "error"
	switch {
	case dErrors.Is(err, dErrors.CodeEvidenceRejected):
		result = "rejected"
	case dErrors.Is(err, dErrors.CodeValidation):
		result = "invalid"
	}
	s.metrics.StepsSubmitted.WithLabelValues(method.String(), result).Inc()
}

func (s *Service) loadOwned(ctx context.Context, sessionID id.SessionID, userID id.UserID) (models.Session, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Session{}, dErrors.New(dErrors.CodeNotFound, "session not found")
		}
		return models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "load session")
	}
	if sess.UserID != userID {
		return models.Session{}, dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	return sess, nil
}
