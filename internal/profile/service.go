// Package profile computes the per-user verification status: the composite
// score, the tier it maps to, and the expiration detail for every method.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"campustrust/internal/expiration"
	"campustrust/internal/profile/models"
	"campustrust/internal/registry"
	"campustrust/internal/scoring"
	"campustrust/internal/tier"
	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
	"campustrust/pkg/platform/sentinel"
	"campustrust/pkg/requestcontext"
)

// MethodStatus is the per-method line of a verification status.
type MethodStatus struct {
	Method       id.Method  `json:"method"`
	Weight       int        `json:"weight"`
	Required     bool       `json:"required"`
	Status       string     `json:"status"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Contributing bool       `json:"contributing"`
}

// Status is the full verification view for one user.
//
// Score is the strict recomputation; EffectiveScore additionally honors the
// grace window for lapsed required methods and is what tier and gate
// decisions run on.
type Status struct {
	UserID         id.UserID        `json:"user_id"`
	Score          int              `json:"score"`
	EffectiveScore int              `json:"effective_score"`
	Tier           tier.Tier        `json:"tier"`
	Benefits       []tier.Benefit   `json:"benefits"`
	Methods        []MethodStatus   `json:"methods"`
	Expiration     models.GraceInfo `json:"expiration"`
	ComputedAt     time.Time        `json:"computed_at"`
}

// Service orchestrates status reads and completion writes.
type Service struct {
	store   Store
	reg     *registry.Registry
	tracker *expiration.Tracker
	cache   *StatusCache
	logger  *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithCache enables the Redis status cache.
func WithCache(cache *StatusCache) Option {
	return func(s *Service) { s.cache = cache }
}

func NewService(store Store, reg *registry.Registry, tracker *expiration.Tracker, opts ...Option) *Service {
	s := &Service{
		store:   store,
		reg:     reg,
		tracker: tracker,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the verification status for a user. Absent users degrade to
// the guest status (score 0, unverified) rather than an error.
func (s *Service) Status(ctx context.Context, userID id.UserID) (*Status, error) {
	if s.cache != nil {
		if cached := s.cache.Get(ctx, userID); cached != nil {
			return cached, nil
		}
	}

	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := s.buildStatus(p, requestcontext.Now(ctx))
	if s.cache != nil {
		s.cache.Set(ctx, status)
	}
	return status, nil
}

// Profile loads the completion set with score and tier recomputed at the
// request's clock. Absent users get the guest profile.
func (s *Service) Profile(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Guest(userID), nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load profile")
	}

	now := requestcontext.Now(ctx)
	p.Score = s.tracker.EffectiveScore(p, now)
	p.Tier = tier.Classify(p.Score)
	return p, nil
}

// RecordCompletion writes one completion, replacing any prior completion for
// the same method. A concurrent submission that lost the race surfaces as a
// conflict so the caller can retry against fresh state.
func (s *Service) RecordCompletion(ctx context.Context, c models.MethodCompletion) error {
	if _, ok := s.reg.Get(c.MethodID); !ok {
		return dErrors.New(dErrors.CodeValidation, "unknown verification method")
	}
	if !c.Status.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "invalid completion status")
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = requestcontext.Now(ctx)
	}

	if err := s.store.UpsertCompletion(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "a newer completion exists for this method")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "save completion")
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, c.UserID)
	}
	return nil
}

// ClearGrace drops the persisted grace marker, used when a renewal approval
// restores all required methods.
func (s *Service) ClearGrace(ctx context.Context, userID id.UserID) error {
	if err := s.store.SetGraceExpiry(ctx, userID, nil); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "clear grace marker")
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return nil
}

func (s *Service) buildStatus(p *models.Profile, now time.Time) *Status {
	completions := make([]models.MethodCompletion, 0, len(p.Completions))
	for _, c := range p.Completions {
		completions = append(completions, c)
	}
	contributing := scoring.Contributing(s.reg, completions, now)

	methods := make([]MethodStatus, 0, len(s.reg.All()))
	for _, m := range s.reg.All() {
		ms := MethodStatus{
			Method:   m.ID,
			Weight:   m.Weight,
			Required: m.Required,
			Status:   "missing",
		}
		if c, ok := p.Completions[m.ID]; ok {
			ms.Status = string(s.tracker.MethodState(c, now))
			completedAt := c.CompletedAt
			expiresAt := c.ExpiresAt(m.Validity)
			ms.CompletedAt = &completedAt
			ms.ExpiresAt = &expiresAt
			ms.Contributing = contributing[m.ID]
		}
		methods = append(methods, ms)
	}

	effective := s.tracker.EffectiveScore(p, now)
	t := tier.Classify(effective)
	return &Status{
		UserID:         p.UserID,
		Score:          scoring.ComputeProfile(s.reg, p, now),
		EffectiveScore: effective,
		Tier:           t,
		Benefits:       tier.Benefits(t),
		Methods:        methods,
		Expiration:     s.tracker.Evaluate(p, now),
		ComputedAt:     now,
	}
}
