// Package expiration owns the temporal lifecycle of trust: per-method
// validity, the aggregate active → grace → expired state machine, and the
// grace window that keeps benefits alive while a renewal is pending.
//
// All state here is computed lazily from completion timestamps and the
// supplied clock. Recomputing is idempotent: running it arbitrarily often
// changes nothing beyond what elapsed time justifies.
package expiration

import (
	"time"

	"campustrust/internal/profile/models"
	"campustrust/internal/registry"
	id "campustrust/pkg/domain"
)

// Tracker evaluates expiration state for completions and profiles.
type Tracker struct {
	reg         *registry.Registry
	graceWindow time.Duration
	warnWindow  time.Duration
}

// NewTracker builds a tracker. graceWindow is how long prior benefits survive
// a required method's expiry; warnWindow is how far ahead expiring methods
// are flagged.
func NewTracker(reg *registry.Registry, graceWindow, warnWindow time.Duration) *Tracker {
	return &Tracker{reg: reg, graceWindow: graceWindow, warnWindow: warnWindow}
}

// GraceWindow returns the configured grace duration.
func (t *Tracker) GraceWindow() time.Duration { return t.graceWindow }

// WarnWindow returns how far ahead expiring methods are flagged.
func (t *Tracker) WarnWindow() time.Duration { return t.warnWindow }

// MethodState returns the lazily computed status of one completion: a
// verified completion past its validity reads as expired without any stored
// mutation.
func (t *Tracker) MethodState(c models.MethodCompletion, now time.Time) models.CompletionStatus {
	if c.Status != models.CompletionVerified {
		return c.Status
	}
	m, ok := t.reg.Get(c.MethodID)
	if !ok {
		return c.Status
	}
	if !c.ExpiresAt(m.Validity).After(now) {
		return models.CompletionExpired
	}
	return models.CompletionVerified
}

// Evaluate derives the aggregate expiration state for a profile.
//
// State machine: active --(any required method expires)--> grace
// --(grace window elapses without renewal)--> expired. Transition back to
// active happens only through renewal approval, which rewrites the relevant
// completion with a fresh completedAt.
func (t *Tracker) Evaluate(p *models.Profile, now time.Time) models.GraceInfo {
	info := models.GraceInfo{State: models.ProfileActive}
	if p == nil || len(p.Completions) == 0 {
		return info
	}

	var earliestRequiredExpiry *time.Time
	for _, m := range t.reg.Required() {
		c, ok := p.Completions[m.ID]
		if !ok || c.Status == models.CompletionRejected || c.Status == models.CompletionPending {
			continue
		}
		expiresAt := c.ExpiresAt(m.Validity)
		if earliestRequiredExpiry == nil || expiresAt.Before(*earliestRequiredExpiry) {
			e := expiresAt
			earliestRequiredExpiry = &e
		}
		if !expiresAt.After(now) {
			info.ExpiredMethods = append(info.ExpiredMethods, m.ID)
		} else if !expiresAt.After(now.Add(t.warnWindow)) {
			info.ExpiringSoonMethods = append(info.ExpiringSoonMethods, m.ID)
		}
	}

	if earliestRequiredExpiry != nil {
		info.ExpiresAt = earliestRequiredExpiry
		days := int(earliestRequiredExpiry.Sub(now).Hours() / 24)
		if days < 0 {
			days = 0
		}
		info.DaysUntilExpiration = &days
	}

	if len(info.ExpiredMethods) > 0 {
		graceEnds := graceDeadline(p, *earliestRequiredExpiry, t.graceWindow)
		info.GracePeriodEndsAt = &graceEnds
		if now.Before(graceEnds) {
			info.State = models.ProfileGrace
		} else {
			info.State = models.ProfileExpired
		}
		info.RequiresRenewal = true
		return info
	}

	if len(info.ExpiringSoonMethods) > 0 {
		info.RequiresRenewal = true
	}
	return info
}

// EffectiveScore computes the score the gate actually enforces. It matches
// the strict calculator except that a lapsed required method keeps counting
// until its grace window closes, so access does not change the instant a
// required method expires.
//
// Optional methods get no grace: they stop counting at expiry.
func (t *Tracker) EffectiveScore(p *models.Profile, now time.Time) int {
	if p == nil {
		return 0
	}
	counted := make(map[id.Method]bool, len(p.Completions))
	score := 0
	for _, c := range p.Completions {
		if counted[c.MethodID] {
			continue
		}
		m, ok := t.reg.Get(c.MethodID)
		if !ok {
			continue
		}
		if m.Required {
			// A lapsed required method keeps counting until its grace window
			// closes. The sweeper may have materialized the lapse to status
			// expired already, so grace credit goes by timestamps, not status.
			eligible := c.Status == models.CompletionVerified || c.Status == models.CompletionExpired
			if !eligible || !c.ExpiresAt(m.Validity+t.graceWindow).After(now) {
				continue
			}
		} else if !c.Counts(m.Validity, now) {
			continue
		}
		counted[c.MethodID] = true
		score += m.Weight
	}
	if score > 100 {
		score = 100
	}
	return score
}

// graceDeadline anchors the grace window. A persisted grace expiry (set when
// the sweeper observed the transition) wins; otherwise the deadline is
// derived from the earliest required expiry, which yields the same instant
// no matter how often it is recomputed.
func graceDeadline(p *models.Profile, earliestExpiry time.Time, grace time.Duration) time.Time {
	if p.GraceExpiresAt != nil {
		return *p.GraceExpiresAt
	}
	return earliestExpiry.Add(grace)
}
