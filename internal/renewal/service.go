// Package renewal runs the re-verification workflow for lapsed or expiring
// profiles. A renewal request moves draft -> submitted -> under_review ->
// approved | rejected; approval rewrites the covered completions with a
// fresh timestamp, which is what restores the score.
package renewal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"campustrust/internal/expiration"
	"campustrust/internal/platform/metrics"
	profilemodels "campustrust/internal/profile/models"
	"campustrust/internal/registry"
	"campustrust/internal/renewal/models"
	"campustrust/internal/renewal/store"
	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
	audit "campustrust/pkg/platform/audit"
	"campustrust/pkg/platform/sentinel"
	"campustrust/pkg/requestcontext"
)

// Profiles is the slice of the profile service the renewal workflow needs.
type Profiles interface {
	Profile(ctx context.Context, userID id.UserID) (*profilemodels.Profile, error)
	RecordCompletion(ctx context.Context, c profilemodels.MethodCompletion) error
	ClearGrace(ctx context.Context, userID id.UserID) error
}

// Service orchestrates renewal submission and review.
type Service struct {
	store    store.Store
	profiles Profiles
	reg      *registry.Registry
	tracker  *expiration.Tracker
	logger   *slog.Logger
	metrics  *metrics.Metrics
	audit    audit.Emitter
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

func NewService(st store.Store, profiles Profiles, reg *registry.Registry, tracker *expiration.Tracker, opts ...Option) *Service {
	s := &Service{
		store:    st,
		profiles: profiles,
		reg:      reg,
		tracker:  tracker,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit creates and submits a renewal request.
//
// A methods-type request must name at least one method, every named method
// must be known, and at least one must actually be lapsed or expiring.
// Validation failures leave no stored state behind. One open request per
// user; a second submission conflicts.
func (s *Service) Submit(ctx context.Context, userID id.UserID, renewalType models.Type, methods []id.Method, reason string) (*models.Request, error) {
	now := requestcontext.Now(ctx)

	p, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	renewable := s.renewableMethods(p, now)
	if len(renewable) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "no methods are expired or expiring; nothing to renew")
	}

	switch renewalType {
	case models.TypeFull:
		methods = renewable
	case models.TypeMethods:
		if len(methods) == 0 {
			return nil, dErrors.New(dErrors.CodeValidation, "select at least one method to renew")
		}
		if err := s.validateSelection(methods, renewable); err != nil {
			return nil, err
		}
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "invalid renewal type")
	}

	submittedAt := now
	request := models.Request{
		ID:          id.NewRenewalID(),
		UserID:      userID,
		Type:        renewalType,
		Methods:     methods,
		Reason:      reason,
		State:       models.StateSubmitted,
		CreatedAt:   now,
		SubmittedAt: &submittedAt,
	}

	if err := s.store.Create(ctx, request); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an open renewal request already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save renewal request")
	}

	if s.metrics != nil {
		s.metrics.RenewalsSubmitted.Inc()
	}
	audit.Log(ctx, s.logger, s.audit, audit.Event{
		UserID:  userID,
		Subject: request.ID.String(),
		Action:  string(audit.EventRenewalSubmitted),
	},
		"renewal_id", request.ID.String(),
		"type", string(renewalType),
	)
	return &request, nil
}

// Review decides a submitted request. Approval rewrites every covered
// completion as verified with a fresh completedAt and clears the grace
// marker; the recomputed score restores the user's prior tier.
func (s *Service) Review(ctx context.Context, renewalID id.RenewalID, reviewerID string, approve bool, note string) (*models.Request, error) {
	request, err := s.store.Get(ctx, renewalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "renewal request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load renewal request")
	}

	if request.State == models.StateSubmitted {
		if err := request.Transition(models.StateUnderReview); err != nil {
			return nil, err
		}
	}
	next := models.StateRejected
	if approve {
		next = models.StateApproved
	}
	if err := request.Transition(next); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	request.ReviewedAt = &now
	request.ReviewerID = reviewerID
	request.ReviewNote = note

	if approve {
		if err := s.applyApproval(ctx, &request, now); err != nil {
			return nil, err
		}
	}

	if err := s.store.Update(ctx, request); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "save renewal decision")
	}

	decision := "rejected"
	action := audit.EventRenewalRejected
	if approve {
		decision = "approved"
		action = audit.EventRenewalApproved
	}
	if s.metrics != nil {
		s.metrics.RenewalsReviewed.WithLabelValues(decision).Inc()
	}
	audit.Log(ctx, s.logger, s.audit, audit.Event{
		UserID:   request.UserID,
		Subject:  request.ID.String(),
		Action:   string(action),
		Decision: decision,
		ActorID:  reviewerID,
	},
		"renewal_id", request.ID.String(),
		"decision", decision,
	)
	return &request, nil
}

// Get returns a renewal request, restricted to its owner.
func (s *Service) Get(ctx context.Context, renewalID id.RenewalID, userID id.UserID) (*models.Request, error) {
	request, err := s.store.Get(ctx, renewalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "renewal request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load renewal request")
	}
	if request.UserID != userID {
		return nil, dErrors.New(dErrors.CodeNotFound, "renewal request not found")
	}
	return &request, nil
}

// ListByUser returns the user's renewal history, newest first.
func (s *Service) ListByUser(ctx context.Context, userID id.UserID) ([]models.Request, error) {
	requests, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list renewal requests")
	}
	return requests, nil
}

// renewableMethods lists methods with a completion that is expired, marked
// expired, or inside the warning window.
func (s *Service) renewableMethods(p *profilemodels.Profile, now time.Time) []id.Method {
	var out []id.Method
	for _, m := range s.reg.All() {
		c, ok := p.Completions[m.ID]
		if !ok {
			continue
		}
		switch {
		case c.Status == profilemodels.CompletionExpired:
			out = append(out, m.ID)
		case c.Status == profilemodels.CompletionVerified:
			expiresAt := c.ExpiresAt(m.Validity)
			if !expiresAt.After(now.Add(s.tracker.WarnWindow())) {
				out = append(out, m.ID)
			}
		}
	}
	return out
}

func (s *Service) validateSelection(selected, renewable []id.Method) error {
	renewableSet := make(map[id.Method]bool, len(renewable))
	for _, m := range renewable {
		renewableSet[m] = true
	}
	anyRenewable := false
	for _, m := range selected {
		if _, ok := s.reg.Get(m); !ok {
			return dErrors.New(dErrors.CodeValidation, "unknown method "+m.String())
		}
		if renewableSet[m] {
			anyRenewable = true
		}
	}
	if !anyRenewable {
		return dErrors.New(dErrors.CodeValidation, "selected methods are neither expired nor expiring")
	}
	return nil
}

func (s *Service) applyApproval(ctx context.Context, request *models.Request, now time.Time) error {
	for _, method := range request.Methods {
		err := s.profiles.RecordCompletion(ctx, profilemodels.MethodCompletion{
			UserID:      request.UserID,
			MethodID:    method,
			CompletedAt: now,
			Status:      profilemodels.CompletionVerified,
		})
		if err != nil {
			return err
		}
	}

	p, err := s.profiles.Profile(ctx, request.UserID)
	if err != nil {
		return err
	}
	if s.tracker.Evaluate(p, now).State == profilemodels.ProfileActive {
		if err := s.profiles.ClearGrace(ctx, request.UserID); err != nil {
			return err
		}
	}
	return nil
}
