package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campustrust/internal/expiration"
	"campustrust/internal/platform/jwt"
	"campustrust/internal/platform/logger"
	"campustrust/internal/platform/metrics"
	"campustrust/internal/profile"
	"campustrust/internal/registry"
	"campustrust/internal/session"
	"campustrust/internal/session/evidence"
	"campustrust/internal/session/evidence/otp"
	"campustrust/internal/session/models"
	httptransport "campustrust/internal/transport/http"
	id "campustrust/pkg/domain"
	"campustrust/pkg/testutil"
)

// =============================================================================
// Intake Session Handler Test Suite
// =============================================================================

type SessionHandlerSuite struct {
	suite.Suite
	metrics *metrics.Metrics
	jwtSvc  *jwt.Service
	router  http.Handler
}

func TestSessionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SessionHandlerSuite))
}

func (s *SessionHandlerSuite) SetupSuite() {
	s.metrics = metrics.New()
}

func (s *SessionHandlerSuite) SetupTest() {
	log := logger.New()
	reg := registry.Default()
	tracker := expiration.NewTracker(reg, 7*24*time.Hour, 30*24*time.Hour)
	profiles := profile.NewService(profile.NewInMemoryStore(), reg, tracker)

	codes := otp.NewStore()
	verifiers := evidence.Verifiers{
		Document: evidence.NewDevDocumentAnalyzer(),
		Email:    evidence.NewDevEmailVerifier(codes, nil, log),
		Phone:    evidence.NewDevPhoneVerifier(codes, log),
		Social:   evidence.NewDevSocialVerifier(),
		Location: evidence.NewDevLocationVerifier(40.7128, -74.0060, 5),
	}
	service := session.NewService(session.NewInMemoryStore(), reg, profiles, verifiers)
	s.jwtSvc = jwt.NewService("test-key", "campustrust", "campustrust-api")
	s.router = httptransport.NewRouter(log, s.metrics, nil, New(service, log, s.metrics, s.jwtSvc))
}

func (s *SessionHandlerSuite) authed(userID id.UserID, method, path string, body any) *http.Request {
	req := testutil.NewJSONRequest(s.T(), method, path, body)
	token, err := s.jwtSvc.GenerateAccessToken(userID.UUID(), time.Hour)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (s *SessionHandlerSuite) start(userID id.UserID) *models.Session {
	rr := testutil.DoRequest(s.router, s.authed(userID, http.MethodPost, "/verification/session", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	return testutil.UnmarshalResponse[models.Session](s.T(), rr)
}

func (s *SessionHandlerSuite) TestStart() {
	s.Run("missing token is unauthorized", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/verification/session", nil)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
	})

	s.Run("new session lists all steps required first", func() {
		sess := s.start(id.NewUserID())
		s.Equal(models.StateInProgress, sess.State)
		s.Require().Len(sess.Steps, 5)
		s.Equal(id.MethodUniversityEmail, sess.Steps[0].Method)
		s.Equal(0, sess.CurrentStep)
	})

	s.Run("starting again resumes the same session", func() {
		userID := id.NewUserID()
		first := s.start(userID)
		second := s.start(userID)
		s.Equal(first.ID, second.ID)
	})
}

func (s *SessionHandlerSuite) TestSubmitStep() {
	s.Run("accepted document evidence completes the step", func() {
		userID := id.NewUserID()
		sess := s.start(userID)

		rr := testutil.DoRequest(s.router, s.authed(userID, http.MethodPost,
			"/verification/session/"+sess.ID.String()+"/steps",
			map[string]any{"method": "student_id", "input": map[string]any{"document_ref": "card.jpg"}}))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		result := testutil.UnmarshalResponse[session.StepResult](s.T(), rr)
		s.True(result.Verified)
		s.Equal(30, result.NewScore)

		idx, err := result.Session.StepIndex(id.MethodStudentID)
		s.Require().NoError(err)
		s.Equal(models.StepComplete, result.Session.Steps[idx].State)
	})

	s.Run("rejected evidence is surfaced without advancing", func() {
		userID := id.NewUserID()
		sess := s.start(userID)

		rr := testutil.DoRequest(s.router, s.authed(userID, http.MethodPost,
			"/verification/session/"+sess.ID.String()+"/steps",
			map[string]any{"method": "student_id", "input": map[string]any{"document_ref": "selfie.bmp"}}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "evidence_rejected")
	})

	s.Run("unknown method is a bad request", func() {
		userID := id.NewUserID()
		sess := s.start(userID)

		rr := testutil.DoRequest(s.router, s.authed(userID, http.MethodPost,
			"/verification/session/"+sess.ID.String()+"/steps",
			map[string]any{"method": "carrier_pigeon", "input": map[string]any{}}))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("malformed session id is a bad request", func() {
		userID := id.NewUserID()
		rr := testutil.DoRequest(s.router, s.authed(userID, http.MethodPost,
			"/verification/session/not-a-uuid/steps",
			map[string]any{"method": "student_id", "input": map[string]any{"document_ref": "card.jpg"}}))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *SessionHandlerSuite) TestSkip() {
	s.Run("optional step can be skipped", func() {
		userID := id.NewUserID()
		sess := s.start(userID)

		rr := testutil.DoRequest(s.router, s.authed(userID, http.MethodPost,
			"/verification/session/"+sess.ID.String()+"/skip",
			map[string]any{"method": "social_media"}))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		updated := testutil.UnmarshalResponse[models.Session](s.T(), rr)
		idx, err := updated.StepIndex(id.MethodSocialMedia)
		s.Require().NoError(err)
		s.Equal(models.StepSkipped, updated.Steps[idx].State)
	})

	s.Run("required step cannot be skipped", func() {
		userID := id.NewUserID()
		sess := s.start(userID)

		rr := testutil.DoRequest(s.router, s.authed(userID, http.MethodPost,
			"/verification/session/"+sess.ID.String()+"/skip",
			map[string]any{"method": "university_email"}))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
	})
}

func (s *SessionHandlerSuite) TestGet() {
	s.Run("owner can fetch the session", func() {
		userID := id.NewUserID()
		sess := s.start(userID)

		rr := testutil.DoRequest(s.router, s.authed(userID, http.MethodGet,
			"/verification/session/"+sess.ID.String(), nil))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)

		fetched := testutil.UnmarshalResponse[models.Session](s.T(), rr)
		s.Equal(sess.ID, fetched.ID)
	})

	s.Run("another user's session is not found", func() {
		owner := id.NewUserID()
		sess := s.start(owner)

		rr := testutil.DoRequest(s.router, s.authed(id.NewUserID(), http.MethodGet,
			"/verification/session/"+sess.ID.String(), nil))
		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	})
}
