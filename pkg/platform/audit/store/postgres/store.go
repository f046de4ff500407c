// Package postgres implements audit.Store over a transactional outbox.
// Every event lands in two tables in one transaction: the outbox row is
// shipped to Kafka by the outbox worker, and the audit_events row backs the
// local read queries.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	id "campustrust/pkg/domain"
	audit "campustrust/pkg/platform/audit"

	"github.com/google/uuid"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// outboxPayload is the JSON structure published to Kafka. Field names match
// audit.Event so the consumer can deserialize directly.
type outboxPayload struct {
	ID        string `json:"ID"`
	Category  string `json:"Category"`
	Timestamp string `json:"Timestamp"`
	UserID    string `json:"UserID,omitempty"`
	Subject   string `json:"Subject"`
	Action    string `json:"Action"`
	Method    string `json:"Method,omitempty"`
	Decision  string `json:"Decision,omitempty"`
	Reason    string `json:"Reason,omitempty"`
	RequestID string `json:"RequestID,omitempty"`
	IP        string `json:"IP,omitempty"`
	Device    string `json:"Device,omitempty"`
	ActorID   string `json:"ActorID,omitempty"`
}

// Append writes an audit event to the outbox for Kafka publishing and to the
// audit_events table for local reads, atomically.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()
	category := audit.AuditEvent(event.Action).Category()

	payload := outboxPayload{
		ID:        eventID.String(),
		Category:  string(category),
		Timestamp: event.Timestamp.Format(time.RFC3339Nano),
		Subject:   event.Subject,
		Action:    event.Action,
		Method:    event.Method,
		Decision:  event.Decision,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		IP:        event.IP,
		Device:    event.Device,
		ActorID:   event.ActorID,
	}
	if !event.UserID.IsNil() {
		payload.UserID = event.UserID.String()
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	aggregateType := "audit"
	aggregateID := eventID.String()
	if !event.UserID.IsNil() {
		aggregateType = "user"
		aggregateID = event.UserID.String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin audit tx: %w", err)
	}
	defer tx.Rollback()

	outboxQuery := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, outboxQuery,
		eventID,
		aggregateType,
		aggregateID,
		event.Action,
		payloadBytes,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}

	var userID any
	if !event.UserID.IsNil() {
		userID = uuid.UUID(event.UserID)
	}
	eventsQuery := `
		INSERT INTO audit_events (category, timestamp, user_id, subject, action,
			method, decision, reason, request_id, ip, device, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = tx.ExecContext(ctx, eventsQuery,
		string(category),
		event.Timestamp,
		userID,
		event.Subject,
		event.Action,
		event.Method,
		event.Decision,
		event.Reason,
		event.RequestID,
		event.IP,
		event.Device,
		event.ActorID,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit audit tx: %w", err)
	}
	return nil
}

// ListByUser returns events for a specific user from the materialized table.
func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, user_id, subject, action,
			   method, decision, reason, request_id, ip, device, actor_id
		FROM audit_events
		WHERE user_id = $1
		ORDER BY timestamp DESC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListRecent returns the N most recent events.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	query := `
		SELECT category, timestamp, user_id, subject, action,
			   method, decision, reason, request_id, ip, device, actor_id
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			category string
			event    audit.Event
			userID   *uuid.UUID
		)
		err := rows.Scan(
			&category,
			&event.Timestamp,
			&userID,
			&event.Subject,
			&event.Action,
			&event.Method,
			&event.Decision,
			&event.Reason,
			&event.RequestID,
			&event.IP,
			&event.Device,
			&event.ActorID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		if userID != nil {
			event.UserID = id.UserID(*userID)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
