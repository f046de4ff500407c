package kafka

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// OutboxWorker ships pending outbox rows to Kafka. Rows are marked published
// only after the produce succeeds, so delivery is at-least-once and the
// consumer side must be idempotent.
type OutboxWorker struct {
	db       *sql.DB
	producer *Producer
	logger   *slog.Logger
	interval time.Duration
	batch    int
}

func NewOutboxWorker(db *sql.DB, producer *Producer, logger *slog.Logger, interval time.Duration) *OutboxWorker {
	return &OutboxWorker{
		db:       db,
		producer: producer,
		logger:   logger,
		interval: interval,
		batch:    100,
	}
}

// Run polls the outbox until the context is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.flush(ctx); err != nil {
				w.logger.Error("outbox flush failed", "error", err)
			}
		}
	}
}

func (w *OutboxWorker) flush(ctx context.Context) error {
	rows, err := w.db.QueryContext(ctx, `
		SELECT id, aggregate_id, payload
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
	`, w.batch)
	if err != nil {
		return fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	type entry struct {
		id          string
		aggregateID string
		payload     []byte
	}
	var pending []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.aggregateID, &e.payload); err != nil {
			return fmt.Errorf("scan outbox entry: %w", err)
		}
		pending = append(pending, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate outbox: %w", err)
	}

	for _, e := range pending {
		if err := w.producer.Publish(ctx, []byte(e.aggregateID), e.payload); err != nil {
			return err
		}
		_, err := w.db.ExecContext(ctx, `
			UPDATE outbox SET published_at = $2 WHERE id = $1
		`, e.id, time.Now())
		if err != nil {
			return fmt.Errorf("mark outbox entry published: %w", err)
		}
	}
	return nil
}
