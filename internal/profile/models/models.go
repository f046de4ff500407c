// Package models defines the per-user verification records shared by the
// scoring, gating, expiration, and renewal services.
package models

import (
	"time"

	"campustrust/internal/tier"
	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
)

// CompletionStatus is the lifecycle state of one method completion.
type CompletionStatus string

const (
	CompletionPending  CompletionStatus = "pending"
	CompletionVerified CompletionStatus = "verified"
	CompletionRejected CompletionStatus = "rejected"
	CompletionExpired  CompletionStatus = "expired"
)

// IsValid checks if the status is one of the supported enum values.
func (s CompletionStatus) IsValid() bool {
	switch s {
	case CompletionPending, CompletionVerified, CompletionRejected, CompletionExpired:
		return true
	}
	return false
}

// ParseCompletionStatus constructs a CompletionStatus from external input.
func ParseCompletionStatus(s string) (CompletionStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "completion status cannot be empty")
	}
	cs := CompletionStatus(s)
	if !cs.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid completion status")
	}
	return cs, nil
}

// MethodCompletion records that a user finished one verification method.
// Exactly one completion exists per (user, method); resubmission replaces it.
//
// Completions are created by evidence submission and mutated only by the
// expiration tracker (to expired) or renewal approval (back to verified).
// Score and tier logic reads them and never writes.
type MethodCompletion struct {
	UserID      id.UserID        `json:"user_id"`
	MethodID    id.Method        `json:"method_id"`
	CompletedAt time.Time        `json:"completed_at"`
	EvidenceRef string           `json:"evidence_ref"`
	Status      CompletionStatus `json:"status"`
}

// ExpiresAt returns when this completion stops counting, given its validity.
func (c MethodCompletion) ExpiresAt(validity time.Duration) time.Time {
	return c.CompletedAt.Add(validity)
}

// Counts reports whether the completion contributes to the score at the
// given instant: verified and still within its validity period.
func (c MethodCompletion) Counts(validity time.Duration, now time.Time) bool {
	return c.Status == CompletionVerified && c.ExpiresAt(validity).After(now)
}

// ProfileState is the aggregate expiration state of a profile.
type ProfileState string

const (
	// ProfileActive: all required completions current.
	ProfileActive ProfileState = "active"
	// ProfileGrace: a required method has lapsed but the grace window is
	// still open; prior benefits remain.
	ProfileGrace ProfileState = "grace"
	// ProfileExpired: the grace window elapsed without renewal; the lapsed
	// methods no longer contribute and access degrades via the recomputed
	// score alone.
	ProfileExpired ProfileState = "expired"
)

// GraceInfo is the expiration detail exposed to collaborators so the UI can
// warn the user.
type GraceInfo struct {
	State               ProfileState `json:"state"`
	ExpiresAt           *time.Time   `json:"expires_at,omitempty"`
	DaysUntilExpiration *int         `json:"days_until_expiration,omitempty"`
	GracePeriodEndsAt   *time.Time   `json:"grace_period_ends_at,omitempty"`
	RequiresRenewal     bool         `json:"requires_renewal"`
	ExpiredMethods      []id.Method  `json:"expired_methods,omitempty"`
	ExpiringSoonMethods []id.Method  `json:"expiring_soon_methods,omitempty"`
}

// Profile is the per-user verification view. Score and Tier are always
// recomputed from Completions; they are cached, never authoritative.
type Profile struct {
	UserID         id.UserID                      `json:"user_id"`
	Completions    map[id.Method]MethodCompletion `json:"completions"`
	Score          int                            `json:"score"`
	Tier           tier.Tier                      `json:"tier"`
	GraceExpiresAt *time.Time                     `json:"grace_expires_at,omitempty"`
}

// Guest returns the zero-value profile used for absent users: score 0,
// unverified, no completions. Access decisions degrade to deny rather than
// fail.
func Guest(userID id.UserID) *Profile {
	return &Profile{
		UserID:      userID,
		Completions: map[id.Method]MethodCompletion{},
		Score:       0,
		Tier:        tier.Unverified,
	}
}

// VerifiedMethods returns the methods with a verified completion, regardless
// of expiry (expiry is the score calculator's concern).
func (p *Profile) VerifiedMethods() []id.Method {
	var out []id.Method
	for _, m := range id.Methods() {
		if c, ok := p.Completions[m]; ok && c.Status == CompletionVerified {
			out = append(out, m)
		}
	}
	return out
}
