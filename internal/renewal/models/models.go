// Package models defines the renewal request lifecycle.
package models

import (
	"time"

	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
)

// Type distinguishes a full re-verification from a targeted one.
type Type string

const (
	// TypeFull renews every lapsed or expiring method on the profile.
	TypeFull Type = "full"
	// TypeMethods renews only the explicitly selected methods.
	TypeMethods Type = "methods"
)

// ParseType constructs a Type from external input.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeFull, TypeMethods:
		return Type(s), nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "invalid renewal type")
}

// State is one step of the review workflow:
// draft -> submitted -> under_review -> approved | rejected.
type State string

const (
	StateDraft       State = "draft"
	StateSubmitted   State = "submitted"
	StateUnderReview State = "under_review"
	StateApproved    State = "approved"
	StateRejected    State = "rejected"
)

// Open reports whether the request still awaits a decision.
func (s State) Open() bool {
	return s == StateDraft || s == StateSubmitted || s == StateUnderReview
}

// transitions lists the legal next states.
var transitions = map[State][]State{
	StateDraft:       {StateSubmitted},
	StateSubmitted:   {StateUnderReview, StateApproved, StateRejected},
	StateUnderReview: {StateApproved, StateRejected},
}

// CanTransition reports whether moving from s to next is legal.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Request is one renewal application.
type Request struct {
	ID          id.RenewalID `json:"id"`
	UserID      id.UserID    `json:"user_id"`
	Type        Type         `json:"type"`
	Methods     []id.Method  `json:"methods,omitempty"`
	Reason      string       `json:"reason,omitempty"`
	State       State        `json:"state"`
	CreatedAt   time.Time    `json:"created_at"`
	SubmittedAt *time.Time   `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time   `json:"reviewed_at,omitempty"`
	ReviewerID  string       `json:"reviewer_id,omitempty"`
	ReviewNote  string       `json:"review_note,omitempty"`
}

// Transition moves the request to the next state, returning a state error on
// an illegal move.
func (r *Request) Transition(next State) error {
	if !r.State.CanTransition(next) {
		return dErrors.New(dErrors.CodeInvalidState,
			"cannot move renewal from "+string(r.State)+" to "+string(next))
	}
	r.State = next
	return nil
}
