// Package domain holds value types shared across the trust engine: typed
// identifiers and the verification method enum.
//
// Typed IDs wrap uuid.UUID so the compiler rejects cross-type assignment
// (a SessionID can never be passed where a UserID is expected). Construct
// them via the Parse functions at trust boundaries; direct casting bypasses
// validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "campustrust/pkg/domain-errors"
)

// UserID identifies a marketplace user.
type UserID uuid.UUID

// SessionID identifies a verification intake session.
type SessionID uuid.UUID

// RenewalID identifies a verification renewal request.
type RenewalID uuid.UUID

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewSessionID returns a fresh random SessionID.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

// NewRenewalID returns a fresh random RenewalID.
func NewRenewalID() RenewalID { return RenewalID(uuid.New()) }

// ParseUserID constructs a UserID from external input.
// Errors: CodeInvalidInput when the value is empty, malformed, or the nil UUID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	return UserID(u), err
}

// ParseSessionID constructs a SessionID from external input.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s)
	return SessionID(u), err
}

// ParseRenewalID constructs a RenewalID from external input.
func ParseRenewalID(s string) (RenewalID, error) {
	u, err := parseUUID(s)
	return RenewalID(u), err
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id SessionID) String() string { return uuid.UUID(id).String() }
func (id RenewalID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RenewalID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id UserID) UUID() uuid.UUID    { return uuid.UUID(id) }
func (id SessionID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id RenewalID) UUID() uuid.UUID { return uuid.UUID(id) }
