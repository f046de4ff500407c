package renewal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campustrust/internal/expiration"
	"campustrust/internal/profile"
	profilemodels "campustrust/internal/profile/models"
	"campustrust/internal/registry"
	"campustrust/internal/renewal/models"
	renewalstore "campustrust/internal/renewal/store"
	"campustrust/internal/tier"
	id "campustrust/pkg/domain"
	dErrors "campustrust/pkg/domain-errors"
	"campustrust/pkg/requestcontext"
)

// =============================================================================
// Renewal Service Test Suite
// =============================================================================
// Justification for unit tests: the submission validation matrix and the
// approval side effects (completion rewrite, grace clearing, score
// restoration) span three collaborating services; pinning them needs seeded
// stores and a controlled clock.

type RenewalServiceSuite struct {
	suite.Suite
	profileStore *profile.InMemoryStore
	renewStore   *renewalstore.InMemoryStore
	profiles     *profile.Service
	service      *Service
	now          time.Time
	ctx          context.Context
}

func TestRenewalServiceSuite(t *testing.T) {
	suite.Run(t, new(RenewalServiceSuite))
}

func (s *RenewalServiceSuite) SetupTest() {
	reg := registry.Default()
	tracker := expiration.NewTracker(reg, 7*24*time.Hour, 30*24*time.Hour)
	s.profileStore = profile.NewInMemoryStore()
	s.renewStore = renewalstore.NewInMemoryStore()
	s.profiles = profile.NewService(s.profileStore, reg, tracker)
	s.service = NewService(s.renewStore, s.profiles, reg, tracker)
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *RenewalServiceSuite) seed(userID id.UserID, m id.Method, completedAt time.Time) {
	err := s.profileStore.UpsertCompletion(s.ctx, profilemodels.MethodCompletion{
		UserID:      userID,
		MethodID:    m,
		CompletedAt: completedAt,
		Status:      profilemodels.CompletionVerified,
	})
	s.Require().NoError(err)
}

// seedLapsedStudent builds a profile whose student id lapsed while email is
// current: score 40, previously 70.
func (s *RenewalServiceSuite) seedLapsedStudent() id.UserID {
	userID := id.NewUserID()
	s.seed(userID, id.MethodUniversityEmail, s.now.Add(-time.Hour))
	s.seed(userID, id.MethodStudentID, s.now.Add(-366*24*time.Hour))
	return userID
}

// =============================================================================
// Submit Tests
// =============================================================================

func (s *RenewalServiceSuite) TestSubmit() {
	s.Run("nothing to renew is rejected", func() {
		userID := id.NewUserID()
		s.seed(userID, id.MethodUniversityEmail, s.now.Add(-time.Hour))

		_, err := s.service.Submit(s.ctx, userID, models.TypeFull, nil, "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	s.Run("full renewal covers every renewable method", func() {
		userID := s.seedLapsedStudent()

		request, err := s.service.Submit(s.ctx, userID, models.TypeFull, nil, "semester abroad")
		s.Require().NoError(err)
		s.Equal(models.StateSubmitted, request.State)
		s.Equal([]id.Method{id.MethodStudentID}, request.Methods)
		s.Require().NotNil(request.SubmittedAt)
		s.Equal(s.now, *request.SubmittedAt)
	})

	s.Run("methods renewal with empty selection is rejected without side effects", func() {
		userID := s.seedLapsedStudent()

		_, err := s.service.Submit(s.ctx, userID, models.TypeMethods, nil, "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))

		requests, err := s.service.ListByUser(s.ctx, userID)
		s.Require().NoError(err)
		s.Empty(requests)
	})

	s.Run("methods renewal naming an unknown method is rejected", func() {
		userID := s.seedLapsedStudent()

		_, err := s.service.Submit(s.ctx, userID, models.TypeMethods,
			[]id.Method{id.Method("blood_sample")}, "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	s.Run("methods renewal with no renewable selection is rejected", func() {
		userID := s.seedLapsedStudent()

		_, err := s.service.Submit(s.ctx, userID, models.TypeMethods,
			[]id.Method{id.MethodUniversityEmail}, "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	s.Run("method inside the warning window is renewable", func() {
		userID := id.NewUserID()
		s.seed(userID, id.MethodUniversityEmail, s.now.Add(-time.Hour))
		// Phone expires in ten days, inside the thirty-day warning.
		s.seed(userID, id.MethodPhone, s.now.Add(-170*24*time.Hour))

		request, err := s.service.Submit(s.ctx, userID, models.TypeMethods,
			[]id.Method{id.MethodPhone}, "")
		s.Require().NoError(err)
		s.Equal([]id.Method{id.MethodPhone}, request.Methods)
	})

	s.Run("second open request conflicts", func() {
		userID := s.seedLapsedStudent()

		_, err := s.service.Submit(s.ctx, userID, models.TypeFull, nil, "")
		s.Require().NoError(err)

		_, err = s.service.Submit(s.ctx, userID, models.TypeFull, nil, "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))
	})
}

// =============================================================================
// Review Tests
// =============================================================================

func (s *RenewalServiceSuite) TestReview() {
	s.Run("unknown request returns not found", func() {
		_, err := s.service.Review(s.ctx, id.NewRenewalID(), "reviewer-1", true, "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})

	s.Run("approval rewrites completions and restores the score", func() {
		userID := s.seedLapsedStudent()

		p, err := s.profiles.Profile(s.ctx, userID)
		s.Require().NoError(err)
		s.Equal(40, p.Score)

		request, err := s.service.Submit(s.ctx, userID, models.TypeFull, nil, "")
		s.Require().NoError(err)

		reviewed, err := s.service.Review(s.ctx, request.ID, "reviewer-1", true, "docs check out")
		s.Require().NoError(err)
		s.Equal(models.StateApproved, reviewed.State)
		s.Equal("reviewer-1", reviewed.ReviewerID)
		s.Require().NotNil(reviewed.ReviewedAt)

		p, err = s.profiles.Profile(s.ctx, userID)
		s.Require().NoError(err)
		s.Equal(70, p.Score)
		s.Equal(tier.Verified, p.Tier)
		s.Equal(s.now, p.Completions[id.MethodStudentID].CompletedAt)
	})

	s.Run("approval clears a pinned grace marker", func() {
		userID := s.seedLapsedStudent()
		at := s.now.Add(5 * 24 * time.Hour)
		s.Require().NoError(s.profileStore.SetGraceExpiry(s.ctx, userID, &at))

		request, err := s.service.Submit(s.ctx, userID, models.TypeFull, nil, "")
		s.Require().NoError(err)
		_, err = s.service.Review(s.ctx, request.ID, "reviewer-1", true, "")
		s.Require().NoError(err)

		p, err := s.profileStore.GetProfile(s.ctx, userID)
		s.Require().NoError(err)
		s.Nil(p.GraceExpiresAt)
	})

	s.Run("rejection leaves the profile untouched", func() {
		userID := s.seedLapsedStudent()

		request, err := s.service.Submit(s.ctx, userID, models.TypeFull, nil, "")
		s.Require().NoError(err)

		reviewed, err := s.service.Review(s.ctx, request.ID, "reviewer-1", false, "photo unreadable")
		s.Require().NoError(err)
		s.Equal(models.StateRejected, reviewed.State)
		s.Equal("photo unreadable", reviewed.ReviewNote)

		p, err := s.profiles.Profile(s.ctx, userID)
		s.Require().NoError(err)
		s.Equal(40, p.Score)
	})

	s.Run("decided request cannot be reviewed again", func() {
		userID := s.seedLapsedStudent()

		request, err := s.service.Submit(s.ctx, userID, models.TypeFull, nil, "")
		s.Require().NoError(err)
		_, err = s.service.Review(s.ctx, request.ID, "reviewer-1", false, "")
		s.Require().NoError(err)

		_, err = s.service.Review(s.ctx, request.ID, "reviewer-2", true, "")
		s.Require().Error(err)
		s.Equal(dErrors.CodeInvalidState, dErrors.CodeOf(err))
	})

	s.Run("rejection frees the slot for a new submission", func() {
		userID := s.seedLapsedStudent()

		request, err := s.service.Submit(s.ctx, userID, models.TypeFull, nil, "")
		s.Require().NoError(err)
		_, err = s.service.Review(s.ctx, request.ID, "reviewer-1", false, "")
		s.Require().NoError(err)

		_, err = s.service.Submit(s.ctx, userID, models.TypeFull, nil, "second try")
		s.NoError(err)
	})
}

// =============================================================================
// Get / ListByUser Tests
// =============================================================================

func (s *RenewalServiceSuite) TestGet() {
	s.Run("owner reads their request", func() {
		userID := s.seedLapsedStudent()
		request, err := s.service.Submit(s.ctx, userID, models.TypeFull, nil, "")
		s.Require().NoError(err)

		got, err := s.service.Get(s.ctx, request.ID, userID)
		s.Require().NoError(err)
		s.Equal(request.ID, got.ID)
	})

	s.Run("another user's request reads as not found", func() {
		userID := s.seedLapsedStudent()
		request, err := s.service.Submit(s.ctx, userID, models.TypeFull, nil, "")
		s.Require().NoError(err)

		_, err = s.service.Get(s.ctx, request.ID, id.NewUserID())
		s.Require().Error(err)
		s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
	})
}
