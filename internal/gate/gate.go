// Package gate makes the allow/deny decision for feature access. Decisions
// are pure functions of the caller's effective score and the feature's
// required score; every decision is audited.
package gate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"campustrust/internal/platform/metrics"
	"campustrust/internal/profile/models"
	"campustrust/internal/registry"
	"campustrust/internal/scoring"
	"campustrust/internal/tier"
	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
	audit "campustrust/pkg/platform/audit"
	"campustrust/pkg/requestcontext"
)

// ProfileSource loads profiles with effective score and tier populated.
type ProfileSource interface {
	Profile(ctx context.Context, userID id.UserID) (*models.Profile, error)
}

// Suggestion is one remediation step: a method the user could complete to
// raise their score.
type Suggestion struct {
	Method   id.Method `json:"method"`
	Weight   int       `json:"weight"`
	Effort   int       `json:"effort"`
	Required bool      `json:"required"`
}

// Decision is the result of one access check.
type Decision struct {
	Feature       string       `json:"feature"`
	Allowed       bool         `json:"allowed"`
	Score         int          `json:"score"`
	RequiredScore int          `json:"required_score"`
	Deficit       int          `json:"deficit"`
	Tier          tier.Tier    `json:"tier"`
	Remediation   []Suggestion `json:"remediation,omitempty"`
}

// DefaultFeatures maps feature names onto required scores, aligned with the
// tier thresholds their benefits unlock at.
func DefaultFeatures() map[string]int {
	return map[string]int{
		string(tier.BenefitCommunityAccess):  tier.BasicMin,
		string(tier.BenefitBookings):         tier.VerifiedMin,
		string(tier.BenefitStudentDiscounts): tier.VerifiedMin,
		string(tier.BenefitPriorityBooking):  tier.PremiumMin,
		string(tier.BenefitPremiumListings):  tier.PremiumMin,
	}
}

// Service evaluates access checks.
type Service struct {
	profiles ProfileSource
	reg      *registry.Registry
	features map[string]int
	logger   *slog.Logger
	metrics  *metrics.Metrics
	audit    audit.Emitter
	tracer   trace.Tracer
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

// WithFeatures replaces the default feature table.
func WithFeatures(features map[string]int) Option {
	return func(s *Service) { s.features = features }
}

func NewService(profiles ProfileSource, reg *registry.Registry, opts ...Option) *Service {
	s := &Service{
		profiles: profiles,
		reg:      reg,
		features: DefaultFeatures(),
		logger:   slog.Default(),
		tracer:   otel.Tracer("campustrust/gate"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckAccess decides whether the user may use the feature. requiredScore
// overrides the feature table when positive; otherwise the feature must be
// registered. Absent users are evaluated as guests (score 0), never as
// errors: the gate fails closed by denying, not by breaking.
func (s *Service) CheckAccess(ctx context.Context, userID id.UserID, feature string, requiredScore int) (*Decision, error) {
	ctx, span := s.tracer.Start(ctx, "gate.CheckAccess",
		trace.WithAttributes(attribute.String("feature", feature)))
	defer span.End()

	if feature == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "feature is required")
	}
	if requiredScore <= 0 {
		registered, ok := s.features[feature]
		if !ok {
			return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown feature %q", feature))
		}
		requiredScore = registered
	}
	if requiredScore > 100 {
		return nil, dErrors.New(dErrors.CodeValidation, "required score cannot exceed 100")
	}

	p, err := s.profiles.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	decision := &Decision{
		Feature:       feature,
		Allowed:       p.Score >= requiredScore,
		Score:         p.Score,
		RequiredScore: requiredScore,
		Tier:          p.Tier,
	}
	if !decision.Allowed {
		decision.Deficit = requiredScore - p.Score
		decision.Remediation = s.remediation(ctx, p)
	}

	span.SetAttributes(
		attribute.Bool("allowed", decision.Allowed),
		attribute.Int("score", decision.Score),
	)
	s.observe(ctx, userID, decision)
	return decision, nil
}

// remediation lists the methods not currently contributing to the score,
// highest weight first; ties go to the lower-effort method.
func (s *Service) remediation(ctx context.Context, p *models.Profile) []Suggestion {
	completions := make([]models.MethodCompletion, 0, len(p.Completions))
	for _, c := range p.Completions {
		completions = append(completions, c)
	}
	contributing := scoring.Contributing(s.reg, completions, requestcontext.Now(ctx))

	var out []Suggestion
	for _, m := range s.reg.All() {
		if contributing[m.ID] {
			continue
		}
		out = append(out, Suggestion{
			Method:   m.ID,
			Weight:   m.Weight,
			Effort:   m.Effort,
			Required: m.Required,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Effort < out[j].Effort
	})
	return out
}

func (s *Service) observe(ctx context.Context, userID id.UserID, d *Decision) {
	outcome := "deny"
	action := audit.EventAccessDenied
	reason := fmt.Sprintf("score %d below required %d", d.Score, d.RequiredScore)
	if d.Allowed {
		outcome = "allow"
		action = audit.EventAccessGranted
		reason = ""
	}
	if s.metrics != nil {
		s.metrics.GateChecks.WithLabelValues(outcome).Inc()
	}
	audit.Log(ctx, s.logger, s.audit, audit.Event{
		UserID:   userID,
		Subject:  d.Feature,
		Action:   string(action),
		Decision: outcome,
		Reason:   reason,
	},
		"feature", d.Feature,
		"score", d.Score,
		"required_score", d.RequiredScore,
	)
}
