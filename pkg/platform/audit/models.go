package audit

import (
	"context"
	"time"

	id "campustrust/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose, which
// drives retention and routing downstream.
type EventCategory string

const (
	// CategoryCompliance covers events with evidentiary significance: who was
	// verified, by what, and which gate decisions were made on that basis.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to abuse monitoring, such as
	// rejected evidence and exhausted challenge attempts.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine lifecycle events useful for debugging.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	Subject   string
	Action    string
	Method    string
	Decision  string
	Reason    string
	RequestID string
	IP        string
	Device    string
	// ActorID tracks who performed the action when different from UserID,
	// e.g. the admin deciding a renewal review.
	ActorID string
}

type AuditEvent string

const (
	// Gate events
	EventAccessGranted AuditEvent = "access_granted"
	EventAccessDenied  AuditEvent = "access_denied"

	// Intake and evidence events
	EventSessionStarted   AuditEvent = "session_started"
	EventSessionCompleted AuditEvent = "session_completed"
	EventStepSkipped      AuditEvent = "step_skipped"
	EventMethodVerified   AuditEvent = "method_verified"
	EventEvidenceRejected AuditEvent = "evidence_rejected"

	// Expiration events
	EventMethodExpired      AuditEvent = "method_expired"
	EventGraceEntered       AuditEvent = "grace_entered"
	EventProfileExpired     AuditEvent = "profile_expired"
	EventExpirationReminder AuditEvent = "expiration_reminder"

	// Renewal events
	EventRenewalSubmitted AuditEvent = "renewal_submitted"
	EventRenewalApproved  AuditEvent = "renewal_approved"
	EventRenewalRejected  AuditEvent = "renewal_rejected"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventAccessGranted:   CategoryCompliance,
	EventAccessDenied:    CategoryCompliance,
	EventMethodVerified:  CategoryCompliance,
	EventRenewalApproved: CategoryCompliance,
	EventRenewalRejected: CategoryCompliance,

	EventEvidenceRejected: CategorySecurity,

	EventSessionStarted:     CategoryOperations,
	EventSessionCompleted:   CategoryOperations,
	EventStepSkipped:        CategoryOperations,
	EventMethodExpired:      CategoryOperations,
	EventGraceEntered:       CategoryOperations,
	EventProfileExpired:     CategoryOperations,
	EventExpirationReminder: CategoryOperations,
	EventRenewalSubmitted:   CategoryOperations,
}

// Category returns the EventCategory for this audit event. Unknown events
// default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
