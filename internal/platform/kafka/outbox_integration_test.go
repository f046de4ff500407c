//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"campustrust/internal/platform/kafka"
	"campustrust/internal/platform/logger"
	id "campustrust/pkg/domain"
	audit "campustrust/pkg/platform/audit"
	auditpostgres "campustrust/pkg/platform/audit/store/postgres"
	"campustrust/pkg/testutil/containers"
)

const testTopic = "campustrust.audit"

type OutboxSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redpanda *containers.RedpandaContainer
	producer *kafka.Producer
}

func TestOutboxSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(OutboxSuite))
}

func (s *OutboxSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), "../../../migrations")
	s.redpanda = containers.NewRedpandaContainer(s.T())

	producer, err := kafka.NewProducer([]string{s.redpanda.Broker}, testTopic)
	s.Require().NoError(err)
	s.T().Cleanup(producer.Close)
	s.producer = producer

	s.Require().NoError(producer.EnsureTopic(context.Background(), 1, 1))
}

func (s *OutboxSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

// TestFlushShipsOutboxRows verifies the full path: an audit append lands in
// the outbox, the worker produces it to Kafka, and the row is marked
// published.
func (s *OutboxSuite) TestFlushShipsOutboxRows() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := auditpostgres.New(s.postgres.DB)
	userID := id.NewUserID()

	err := store.Append(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Subject:   userID.String(),
		Action:    string(audit.EventAccessGranted),
		Decision:  "allowed",
	})
	s.Require().NoError(err)

	worker := kafka.NewOutboxWorker(s.postgres.DB, s.producer, logger.New(), 100*time.Millisecond)
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go func() { _ = worker.Run(workerCtx) }()

	record := s.consumeByKey(ctx, userID.String())

	var payload map[string]any
	s.Require().NoError(json.Unmarshal(record.Value, &payload))
	s.Equal(string(audit.EventAccessGranted), payload["Action"])
	s.Equal(userID.String(), payload["UserID"])

	s.Require().Eventually(func() bool {
		var pending int
		err := s.postgres.DB.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`).Scan(&pending)
		return err == nil && pending == 0
	}, 10*time.Second, 100*time.Millisecond, "outbox row never marked published")
}

// TestAppendMaterializesLocalReads verifies that an append feeds both sides:
// the outbox row carries the payload's event id, and the audit_events table
// serves ListByUser and ListRecent without waiting on Kafka.
func (s *OutboxSuite) TestAppendMaterializesLocalReads() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := auditpostgres.New(s.postgres.DB)
	userID := id.NewUserID()

	err := store.Append(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Subject:   userID.String(),
		Action:    string(audit.EventMethodVerified),
		Method:    "university_email",
	})
	s.Require().NoError(err)
	err = store.Append(ctx, audit.Event{
		Timestamp: time.Now().UTC(),
		Subject:   "sweep",
		Action:    string(audit.EventProfileExpired),
	})
	s.Require().NoError(err)

	byUser, err := store.ListByUser(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(byUser, 1)
	s.Equal(string(audit.EventMethodVerified), byUser[0].Action)
	s.Equal("university_email", byUser[0].Method)
	s.Equal(userID, byUser[0].UserID)

	recent, err := store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Len(recent, 2)

	var rowID, payloadID string
	err = s.postgres.DB.QueryRowContext(ctx,
		`SELECT id::text, payload->>'ID' FROM outbox WHERE aggregate_id = $1`,
		userID.String()).Scan(&rowID, &payloadID)
	s.Require().NoError(err)
	s.Equal(payloadID, rowID)
}

// TestPublishRoundTrip verifies the producer alone against the broker.
func (s *OutboxSuite) TestPublishRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.producer.Publish(ctx, []byte("key-1"), []byte(`{"ping":true}`))
	s.Require().NoError(err)

	record := s.consumeByKey(ctx, "key-1")
	s.JSONEq(`{"ping":true}`, string(record.Value))
}

// consumeByKey reads the topic from the start and returns the first record
// with the given key. Keys are unique per test, so records left over from
// earlier tests are skipped.
func (s *OutboxSuite) consumeByKey(ctx context.Context, key string) *kgo.Record {
	s.T().Helper()

	client, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Broker),
		kgo.ConsumeTopics(testTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer client.Close()

	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		pollCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		fetches := client.PollFetches(pollCtx)
		cancel()
		if errs := fetches.Errors(); len(errs) > 0 {
			continue
		}
		for _, record := range fetches.Records() {
			if string(record.Key) == key {
				return record
			}
		}
	}
	s.Require().FailNow("no record received from the audit topic")
	return nil
}
