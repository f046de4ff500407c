package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campustrust/internal/profile/models"
	id "campustrust/pkg/domain"
	"campustrust/pkg/platform/sentinel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists completions in PostgreSQL. One row per
// (user, method); the upsert guard makes stale writers lose instead of
// silently rolling a completion backwards.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT method, completed_at, evidence_ref, status
		FROM method_completions
		WHERE user_id = $1
	`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer rows.Close()

	completions := make(map[id.Method]models.MethodCompletion)
	for rows.Next() {
		var (
			method      string
			completedAt time.Time
			evidenceRef string
			status      string
		)
		if err := rows.Scan(&method, &completedAt, &evidenceRef, &status); err != nil {
			return nil, fmt.Errorf("scan completion: %w", err)
		}
		m := id.Method(method)
		completions[m] = models.MethodCompletion{
			UserID:      userID,
			MethodID:    m,
			CompletedAt: completedAt,
			EvidenceRef: evidenceRef,
			Status:      models.CompletionStatus(status),
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	if len(completions) == 0 {
		return nil, sentinel.ErrNotFound
	}

	p := &models.Profile{UserID: userID, Completions: completions}

	var graceExpiresAt *time.Time
	err = s.pool.QueryRow(ctx, `
		SELECT grace_expires_at FROM profile_grace WHERE user_id = $1
	`, uuid.UUID(userID)).Scan(&graceExpiresAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("query grace marker: %w", err)
	}
	p.GraceExpiresAt = graceExpiresAt
	return p, nil
}

func (s *PostgresStore) UpsertCompletion(ctx context.Context, c models.MethodCompletion) error {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO method_completions (user_id, method, completed_at, evidence_ref, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, method) DO UPDATE
		SET completed_at = EXCLUDED.completed_at,
			evidence_ref = EXCLUDED.evidence_ref,
			status = EXCLUDED.status
		WHERE method_completions.completed_at <= EXCLUDED.completed_at
	`, uuid.UUID(c.UserID), c.MethodID.String(), c.CompletedAt, c.EvidenceRef, string(c.Status))
	if err != nil {
		return fmt.Errorf("upsert completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) UpdateCompletionStatus(ctx context.Context, userID id.UserID, method id.Method, status models.CompletionStatus) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE method_completions SET status = $3
		WHERE user_id = $1 AND method = $2
	`, uuid.UUID(userID), method.String(), string(status))
	if err != nil {
		return fmt.Errorf("update completion status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetGraceExpiry(ctx context.Context, userID id.UserID, at *time.Time) error {
	if at == nil {
		_, err := s.pool.Exec(ctx, `
			DELETE FROM profile_grace WHERE user_id = $1
		`, uuid.UUID(userID))
		if err != nil {
			return fmt.Errorf("clear grace marker: %w", err)
		}
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profile_grace (user_id, grace_expires_at)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET grace_expires_at = EXCLUDED.grace_expires_at
	`, uuid.UUID(userID), *at)
	if err != nil {
		return fmt.Errorf("set grace marker: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListUserIDs(ctx context.Context) ([]id.UserID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT user_id FROM method_completions
	`)
	if err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	defer rows.Close()

	var out []id.UserID
	for rows.Next() {
		var uid uuid.UUID
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, id.UserID(uid))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user ids: %w", err)
	}
	return out, nil
}
