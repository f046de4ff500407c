package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"campustrust/internal/renewal/models"
	id "campustrust/pkg/domain"
	"campustrust/pkg/platform/sentinel"
)

// PostgresStore persists renewal requests in PostgreSQL. The partial unique
// index on (user_id) WHERE state IN ('draft','submitted','under_review')
// enforces the one-open-request rule at the database.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed renewal store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, r models.Request) error {
	query := `
		INSERT INTO renewal_requests (
			id, user_id, type, methods, reason, state,
			created_at, submitted_at, reviewed_at, reviewer_id, review_note
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		r.ID.UUID(),
		uuid.UUID(r.UserID),
		string(r.Type),
		pq.Array(methodStrings(r.Methods)),
		r.Reason,
		string(r.State),
		r.CreatedAt,
		r.SubmittedAt,
		r.ReviewedAt,
		r.ReviewerID,
		r.ReviewNote,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert renewal request: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, renewalID id.RenewalID) (models.Request, error) {
	query := selectColumns + ` WHERE id = $1`
	row := s.db.QueryRowContext(ctx, query, renewalID.UUID())
	return scanRequest(row)
}

func (s *PostgresStore) Update(ctx context.Context, r models.Request) error {
	query := `
		UPDATE renewal_requests
		SET state = $2, submitted_at = $3, reviewed_at = $4,
			reviewer_id = $5, review_note = $6
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		r.ID.UUID(),
		string(r.State),
		r.SubmittedAt,
		r.ReviewedAt,
		r.ReviewerID,
		r.ReviewNote,
	)
	if err != nil {
		return fmt.Errorf("update renewal request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update renewal request: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindOpenByUser(ctx context.Context, userID id.UserID) (models.Request, error) {
	query := selectColumns + `
		WHERE user_id = $1 AND state IN ('draft', 'submitted', 'under_review')
		LIMIT 1
	`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(userID))
	return scanRequest(row)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID) ([]models.Request, error) {
	query := selectColumns + ` WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("query renewal requests: %w", err)
	}
	defer rows.Close()

	var out []models.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate renewal requests: %w", err)
	}
	return out, nil
}

const selectColumns = `
	SELECT id, user_id, type, methods, reason, state,
		   created_at, submitted_at, reviewed_at, reviewer_id, review_note
	FROM renewal_requests
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (models.Request, error) {
	var (
		r           models.Request
		requestID   uuid.UUID
		userID      uuid.UUID
		reqType     string
		methods     pq.StringArray
		state       string
		submittedAt sql.NullTime
		reviewedAt  sql.NullTime
	)
	err := row.Scan(
		&requestID,
		&userID,
		&reqType,
		&methods,
		&r.Reason,
		&state,
		&r.CreatedAt,
		&submittedAt,
		&reviewedAt,
		&r.ReviewerID,
		&r.ReviewNote,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Request{}, sentinel.ErrNotFound
		}
		return models.Request{}, fmt.Errorf("scan renewal request: %w", err)
	}

	r.ID = id.RenewalID(requestID)
	r.UserID = id.UserID(userID)
	r.Type = models.Type(reqType)
	r.State = models.State(state)
	for _, m := range methods {
		r.Methods = append(r.Methods, id.Method(m))
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		r.SubmittedAt = &t
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		r.ReviewedAt = &t
	}
	return r, nil
}

func methodStrings(methods []id.Method) []string {
	out := make([]string, len(methods))
	for i, m := range methods {
		out[i] = m.String()
	}
	return out
}
