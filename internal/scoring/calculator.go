// Package scoring computes the composite trust score from a user's method
// completions. The calculator is a pure function of its inputs and the
// supplied clock: no side effects, no shared state, safe to call
// concurrently and arbitrarily often.
//
// Scores are always recomputed from the full completion set on read, never
// incremented. That keeps time-based expiration automatic: a lapsed method
// simply stops contributing, with no counter to drift.
package scoring

import (
	"time"

	"campustrust/internal/profile/models"
	"campustrust/internal/registry"
	id "campustrust/pkg/domain"
)

// Compute returns the composite score for the given completions at the given
// instant, clamped to [0, 100].
//
// Only completions with status verified and completedAt + validity > now
// contribute. Each method counts its full weight exactly once; duplicates of
// the same method never stack. Unknown methods contribute nothing.
func Compute(reg *registry.Registry, completions []models.MethodCompletion, now time.Time) int {
	counted := make(map[id.Method]bool, len(completions))
	score := 0
	for _, c := range completions {
		if counted[c.MethodID] {
			continue
		}
		m, ok := reg.Get(c.MethodID)
		if !ok {
			continue
		}
		if !c.Counts(m.Validity, now) {
			continue
		}
		counted[c.MethodID] = true
		score += m.Weight
	}
	return clamp(score)
}

// ComputeProfile is Compute over a profile's completion map. A nil profile
// scores zero.
func ComputeProfile(reg *registry.Registry, p *models.Profile, now time.Time) int {
	if p == nil {
		return 0
	}
	completions := make([]models.MethodCompletion, 0, len(p.Completions))
	for _, c := range p.Completions {
		completions = append(completions, c)
	}
	return Compute(reg, completions, now)
}

// Contributing returns the set of methods that count toward the score at the
// given instant.
func Contributing(reg *registry.Registry, completions []models.MethodCompletion, now time.Time) map[id.Method]bool {
	out := make(map[id.Method]bool)
	for _, c := range completions {
		m, ok := reg.Get(c.MethodID)
		if !ok {
			continue
		}
		if c.Counts(m.Validity, now) {
			out[c.MethodID] = true
		}
	}
	return out
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
