// Package models defines the verification intake session: the wizard that
// walks a user through the method steps.
package models

import (
	"time"

	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
)

// State is the lifecycle of one intake session.
type State string

const (
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
	StateAbandoned  State = "abandoned"
)

// StepState is the per-step progress marker.
type StepState string

const (
	StepPending   StepState = "pending"
	StepChallenge StepState = "challenge_sent"
	StepComplete  StepState = "complete"
	StepSkipped   StepState = "skipped"
)

// Step is one wizard step, bound to a verification method.
type Step struct {
	Method   id.Method `json:"method"`
	Required bool      `json:"required"`
	Effort   int       `json:"effort"`
	State    StepState `json:"state"`
}

// Session is one intake run. Steps are ordered required-first then by
// ascending effort; CurrentStep points at the first step still pending.
type Session struct {
	ID          id.SessionID `json:"id"`
	UserID      id.UserID    `json:"user_id"`
	State       State        `json:"state"`
	Steps       []Step       `json:"steps"`
	CurrentStep int          `json:"current_step"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// StepIndex returns the position of the step for the given method.
func (s *Session) StepIndex(method id.Method) (int, error) {
	for i, step := range s.Steps {
		if step.Method == method {
			return i, nil
		}
	}
	return 0, dErrors.New(dErrors.CodeValidation, "method is not part of this session")
}

// Advance moves CurrentStep to the first required step that is still pending
// or has an outstanding challenge. Once every required step is complete the
// session is done; unresolved optional steps never hold it open.
func (s *Session) Advance() {
	for i, step := range s.Steps {
		if step.Required && (step.State == StepPending || step.State == StepChallenge) {
			s.CurrentStep = i
			return
		}
	}
	if !s.RequiredDone() {
		return
	}
	s.CurrentStep = len(s.Steps)
	s.State = StateComplete
}

// RequiredDone reports whether every required step is complete.
func (s *Session) RequiredDone() bool {
	for _, step := range s.Steps {
		if step.Required && step.State != StepComplete {
			return false
		}
	}
	return true
}
