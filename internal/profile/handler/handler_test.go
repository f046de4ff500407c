package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campustrust/internal/expiration"
	"campustrust/internal/platform/jwt"
	"campustrust/internal/platform/logger"
	"campustrust/internal/platform/metrics"
	"campustrust/internal/profile"
	"campustrust/internal/profile/models"
	"campustrust/internal/registry"
	httptransport "campustrust/internal/transport/http"
	id "campustrust/pkg/domain"
	"campustrust/pkg/testutil"
)

// =============================================================================
// Verification Status Handler Test Suite
// =============================================================================

type StatusHandlerSuite struct {
	suite.Suite
	store   *profile.InMemoryStore
	metrics *metrics.Metrics
	jwtSvc  *jwt.Service
	router  http.Handler
}

func TestStatusHandlerSuite(t *testing.T) {
	suite.Run(t, new(StatusHandlerSuite))
}

func (s *StatusHandlerSuite) SetupSuite() {
	s.metrics = metrics.New()
}

func (s *StatusHandlerSuite) SetupTest() {
	log := logger.New()
	reg := registry.Default()
	tracker := expiration.NewTracker(reg, 7*24*time.Hour, 30*24*time.Hour)
	s.store = profile.NewInMemoryStore()
	service := profile.NewService(s.store, reg, tracker)
	s.jwtSvc = jwt.NewService("test-key", "campustrust", "campustrust-api")
	s.router = httptransport.NewRouter(log, s.metrics, nil, New(service, log, s.metrics, s.jwtSvc))
}

func (s *StatusHandlerSuite) authed(userID id.UserID, method, path string) *http.Request {
	req := testutil.NewRequest(s.T(), method, path)
	token, err := s.jwtSvc.GenerateAccessToken(userID.UUID(), time.Hour)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (s *StatusHandlerSuite) TestHandleStatus() {
	s.Run("missing token is unauthorized", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/verification/status")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("garbage token is unauthorized", func() {
		req := testutil.NewRequest(s.T(), http.MethodGet, "/verification/status")
		req.Header.Set("Authorization", "Bearer nonsense")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("new user sees the guest status", func() {
		userID := id.NewUserID()
		rr := testutil.DoRequest(s.router, s.authed(userID, http.MethodGet, "/verification/status"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		status := testutil.UnmarshalResponse[profile.Status](s.T(), rr)
		s.Equal(userID, status.UserID)
		s.Equal(0, status.Score)
		s.Len(status.Methods, 5)
	})

	s.Run("verified user sees score, tier, and benefits", func() {
		userID := id.NewUserID()
		for _, m := range []id.Method{id.MethodUniversityEmail, id.MethodStudentID} {
			err := s.store.UpsertCompletion(context.Background(), models.MethodCompletion{
				UserID:      userID,
				MethodID:    m,
				CompletedAt: time.Now().Add(-time.Hour),
				Status:      models.CompletionVerified,
			})
			s.Require().NoError(err)
		}

		rr := testutil.DoRequest(s.router, s.authed(userID, http.MethodGet, "/verification/status"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		status := testutil.UnmarshalResponse[profile.Status](s.T(), rr)
		s.Equal(70, status.Score)
		s.Equal(70, status.EffectiveScore)
		s.Equal("verified", string(status.Tier))
		s.NotEmpty(status.Benefits)
	})
}
