package expiration

import (
	"context"
	"log/slog"
	"time"

	"campustrust/internal/platform/metrics"
	"campustrust/internal/profile/models"
	id "campustrust/pkg/domain"
	audit "campustrust/pkg/platform/audit"
	"campustrust/pkg/requestcontext"
)

// ProfileStore is the slice of the profile store the sweeper needs.
type ProfileStore interface {
	ListUserIDs(ctx context.Context) ([]id.UserID, error)
	GetProfile(ctx context.Context, userID id.UserID) (*models.Profile, error)
	UpdateCompletionStatus(ctx context.Context, userID id.UserID, method id.Method, status models.CompletionStatus) error
	SetGraceExpiry(ctx context.Context, userID id.UserID, at *time.Time) error
}

// Sweeper periodically materializes what the lazy evaluation already knows:
// it marks lapsed completions expired, pins grace deadlines, and emits the
// notification events. Correctness never depends on the sweeper running;
// reads compute the same states on demand.
type Sweeper struct {
	store    ProfileStore
	tracker  *Tracker
	logger   *slog.Logger
	metrics  *metrics.Metrics
	audit    audit.Emitter
	interval time.Duration
}

// Option configures the Sweeper.
type Option func(*Sweeper)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sweeper) { s.metrics = m }
}

func WithAudit(emitter audit.Emitter) Option {
	return func(s *Sweeper) { s.audit = emitter }
}

func NewSweeper(store ProfileStore, tracker *Tracker, interval time.Duration, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:    store,
		tracker:  tracker,
		logger:   slog.Default(),
		interval: interval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps on the configured interval until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				s.logger.Error("expiration sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs one full pass. Every profile in the batch is evaluated against
// the same pinned instant so a slow pass cannot expire users mid-batch.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := time.Now()
	ctx = requestcontext.WithTime(ctx, now)

	userIDs, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return err
	}
	for _, userID := range userIDs {
		if err := s.sweepUser(ctx, userID, now); err != nil {
			s.logger.Warn("sweep skipped user", "user_id", userID.String(), "error", err)
		}
	}
	if s.metrics != nil {
		s.metrics.ExpirationSweeps.Inc()
	}
	return nil
}

func (s *Sweeper) sweepUser(ctx context.Context, userID id.UserID, now time.Time) error {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	info := s.tracker.Evaluate(p, now)

	// Materialize lapsed completions so stored state matches what reads
	// compute. The status flip happens at most once per lapse.
	for _, method := range info.ExpiredMethods {
		c, ok := p.Completions[method]
		if !ok || c.Status != models.CompletionVerified {
			continue
		}
		if err := s.store.UpdateCompletionStatus(ctx, userID, method, models.CompletionExpired); err != nil {
			return err
		}
		audit.Log(ctx, s.logger, s.audit, audit.Event{
			UserID: userID,
			Action: string(audit.EventMethodExpired),
			Method: method.String(),
		})
	}

	switch info.State {
	case models.ProfileGrace:
		if p.GraceExpiresAt == nil && info.GracePeriodEndsAt != nil {
			if err := s.store.SetGraceExpiry(ctx, userID, info.GracePeriodEndsAt); err != nil {
				return err
			}
			audit.Log(ctx, s.logger, s.audit, audit.Event{
				UserID: userID,
				Action: string(audit.EventGraceEntered),
				Reason: "required method expired",
			})
		}
	case models.ProfileExpired:
		// The marker doubles as the transition latch: clearing it keeps the
		// expiry event from repeating on every pass. Reads recompute the same
		// deadline from completion timestamps.
		if p.GraceExpiresAt != nil && !now.Before(*p.GraceExpiresAt) {
			if err := s.store.SetGraceExpiry(ctx, userID, nil); err != nil {
				return err
			}
			if s.metrics != nil {
				s.metrics.ProfilesExpired.Inc()
			}
			audit.Log(ctx, s.logger, s.audit, audit.Event{
				UserID: userID,
				Action: string(audit.EventProfileExpired),
				Reason: "grace window elapsed without renewal",
			})
		}
	case models.ProfileActive:
		s.remind(ctx, userID, info)
	}
	return nil
}

// remind emits expiration reminders at the warning milestones. Delivery
// dedup across passes is the notification consumer's concern.
func (s *Sweeper) remind(ctx context.Context, userID id.UserID, info models.GraceInfo) {
	if len(info.ExpiringSoonMethods) == 0 || info.DaysUntilExpiration == nil {
		return
	}
	switch *info.DaysUntilExpiration {
	case 30, 7, 1:
		audit.Log(ctx, s.logger, s.audit, audit.Event{
			UserID: userID,
			Action: string(audit.EventExpirationReminder),
			Reason: "verification expiring soon",
		})
	}
}
