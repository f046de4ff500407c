// Package dErrors provides coded domain errors. Services return these so
// transport layers can translate them into HTTP responses without inspecting
// error strings, and so callers can branch on the class of failure rather
// than its wording.
package dErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks malformed input to a step or operation. Locally
	// recoverable: the user corrects the input and retries.
	CodeValidation Code = "validation"

	// CodeEvidenceRejected marks evidence declined by an external collaborator
	// (document analyzer, code verifier). The method stays unverified.
	CodeEvidenceRejected Code = "evidence_rejected"

	// CodeConflict marks a concurrent duplicate submission; the second writer
	// is rejected to preserve the one-completion-per-method invariant.
	CodeConflict Code = "conflict"

	// CodeInvalidState marks an operation attempted on a session or request
	// not in a state that permits it.
	CodeInvalidState Code = "invalid_state"

	CodeInvalidInput Code = "invalid_input"
	CodeBadRequest   Code = "bad_request"
	CodeNotFound     Code = "not_found"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeInternal     Code = "internal"
)

// DomainError carries a machine-readable code alongside the human message.
type DomainError struct {
	Code    Code
	Message string
	wrapped error
}

func (e *DomainError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.wrapped)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.wrapped }

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Wrap annotates err with a code and message while preserving the chain for
// errors.Is / errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &DomainError{Code: code, Message: message, wrapped: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.wrapped
		if err == nil {
			return false
		}
	}
	return false
}

// Is is a readability alias for HasCode used at call sites that branch on
// error class.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error carries none.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto the HTTP status used by all handlers.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeEvidenceRejected:
		return http.StatusUnprocessableEntity
	case CodeConflict:
		return http.StatusConflict
	case CodeInvalidState:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
