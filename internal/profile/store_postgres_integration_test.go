//go:build integration

package profile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campustrust/internal/profile"
	"campustrust/internal/profile/models"
	id "campustrust/pkg/domain"
	"campustrust/pkg/platform/sentinel"
	"campustrust/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *profile.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), "../../migrations")
	s.store = profile.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

// TestUpsertAndGetProfile verifies the completion round trip.
func (s *PostgresStoreSuite) TestUpsertAndGetProfile() {
	ctx := context.Background()
	userID := id.NewUserID()
	now := time.Now().UTC()

	for _, m := range []id.Method{id.MethodUniversityEmail, id.MethodStudentID} {
		err := s.store.UpsertCompletion(ctx, models.MethodCompletion{
			UserID:      userID,
			MethodID:    m,
			CompletedAt: now,
			EvidenceRef: "ref-" + m.String(),
			Status:      models.CompletionVerified,
		})
		s.Require().NoError(err)
	}

	p, err := s.store.GetProfile(ctx, userID)
	s.Require().NoError(err)
	s.Len(p.Completions, 2)
	s.Nil(p.GraceExpiresAt)

	email := p.Completions[id.MethodUniversityEmail]
	s.Equal("ref-university_email", email.EvidenceRef)
	s.Equal(models.CompletionVerified, email.Status)
	s.WithinDuration(now, email.CompletedAt, time.Millisecond)
}

// TestGetProfileNotFound verifies the sentinel for users with no completions.
func (s *PostgresStoreSuite) TestGetProfileNotFound() {
	_, err := s.store.GetProfile(context.Background(), id.NewUserID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestStaleUpsertLoses verifies the upsert guard: a write with an older
// completion timestamp must not roll the row backwards.
func (s *PostgresStoreSuite) TestStaleUpsertLoses() {
	ctx := context.Background()
	userID := id.NewUserID()
	now := time.Now().UTC()

	err := s.store.UpsertCompletion(ctx, models.MethodCompletion{
		UserID:      userID,
		MethodID:    id.MethodPhone,
		CompletedAt: now,
		EvidenceRef: "fresh",
		Status:      models.CompletionVerified,
	})
	s.Require().NoError(err)

	err = s.store.UpsertCompletion(ctx, models.MethodCompletion{
		UserID:      userID,
		MethodID:    id.MethodPhone,
		CompletedAt: now.Add(-time.Hour),
		EvidenceRef: "stale",
		Status:      models.CompletionVerified,
	})
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	p, err := s.store.GetProfile(ctx, userID)
	s.Require().NoError(err)
	s.Equal("fresh", p.Completions[id.MethodPhone].EvidenceRef)
}

// TestGraceMarker verifies set, read, and clear of the grace expiry marker.
func (s *PostgresStoreSuite) TestGraceMarker() {
	ctx := context.Background()
	userID := id.NewUserID()
	now := time.Now().UTC()

	err := s.store.UpsertCompletion(ctx, models.MethodCompletion{
		UserID:      userID,
		MethodID:    id.MethodUniversityEmail,
		CompletedAt: now,
		Status:      models.CompletionVerified,
	})
	s.Require().NoError(err)

	deadline := now.Add(7 * 24 * time.Hour)
	s.Require().NoError(s.store.SetGraceExpiry(ctx, userID, &deadline))

	p, err := s.store.GetProfile(ctx, userID)
	s.Require().NoError(err)
	s.Require().NotNil(p.GraceExpiresAt)
	s.WithinDuration(deadline, *p.GraceExpiresAt, time.Millisecond)

	s.Require().NoError(s.store.SetGraceExpiry(ctx, userID, nil))

	p, err = s.store.GetProfile(ctx, userID)
	s.Require().NoError(err)
	s.Nil(p.GraceExpiresAt)
}

// TestUpdateCompletionStatus verifies the status transition and the not-found
// sentinel for missing rows.
func (s *PostgresStoreSuite) TestUpdateCompletionStatus() {
	ctx := context.Background()
	userID := id.NewUserID()

	err := s.store.UpsertCompletion(ctx, models.MethodCompletion{
		UserID:      userID,
		MethodID:    id.MethodStudentID,
		CompletedAt: time.Now().UTC(),
		Status:      models.CompletionVerified,
	})
	s.Require().NoError(err)

	err = s.store.UpdateCompletionStatus(ctx, userID, id.MethodStudentID, models.CompletionExpired)
	s.Require().NoError(err)

	p, err := s.store.GetProfile(ctx, userID)
	s.Require().NoError(err)
	s.Equal(models.CompletionExpired, p.Completions[id.MethodStudentID].Status)

	err = s.store.UpdateCompletionStatus(ctx, id.NewUserID(), id.MethodStudentID, models.CompletionExpired)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestListUserIDs verifies users are listed once regardless of how many
// methods they completed.
func (s *PostgresStoreSuite) TestListUserIDs() {
	ctx := context.Background()
	first := id.NewUserID()
	second := id.NewUserID()
	now := time.Now().UTC()

	for _, c := range []models.MethodCompletion{
		{UserID: first, MethodID: id.MethodUniversityEmail, CompletedAt: now, Status: models.CompletionVerified},
		{UserID: first, MethodID: id.MethodPhone, CompletedAt: now, Status: models.CompletionVerified},
		{UserID: second, MethodID: id.MethodUniversityEmail, CompletedAt: now, Status: models.CompletionVerified},
	} {
		s.Require().NoError(s.store.UpsertCompletion(ctx, c))
	}

	ids, err := s.store.ListUserIDs(ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]id.UserID{first, second}, ids)
}
