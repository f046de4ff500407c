package evidence

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"campustrust/internal/session/evidence/otp"
	dErrors "campustrust/pkg/domain-errors"
)

// =============================================================================
// Development Verifier Test Suite
// =============================================================================

type DevVerifierSuite struct {
	suite.Suite
	ctx context.Context
}

func TestDevVerifierSuite(t *testing.T) {
	suite.Run(t, new(DevVerifierSuite))
}

func (s *DevVerifierSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *DevVerifierSuite) TestEmailVerifier() {
	codes := otp.NewStore()
	v := NewDevEmailVerifier(codes, nil, slog.Default())

	s.Run("university domain passes the challenge", func() {
		s.NoError(v.Challenge(s.ctx, "ana@columbia.edu"))
	})

	s.Run("non-university domain is rejected as evidence", func() {
		err := v.Challenge(s.ctx, "ana@gmail.com")
		s.Require().Error(err)
		s.Equal(dErrors.CodeEvidenceRejected, dErrors.CodeOf(err))
	})

	s.Run("malformed address is a validation error", func() {
		for _, addr := range []string{"", "ana", "@columbia.edu", "ana@"} {
			err := v.Challenge(s.ctx, addr)
			s.Require().Error(err, "address %q", addr)
			s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err), "address %q", addr)
		}
	})

	s.Run("custom domain list replaces the default", func() {
		custom := NewDevEmailVerifier(codes, []string{".ac.uk"}, slog.Default())
		s.NoError(custom.Challenge(s.ctx, "ana@ucl.ac.uk"))
		err := custom.Challenge(s.ctx, "ana@columbia.edu")
		s.Equal(dErrors.CodeEvidenceRejected, dErrors.CodeOf(err))
	})

	s.Run("confirm without an outstanding code is rejected", func() {
		_, err := v.Confirm(s.ctx, "fresh@columbia.edu", "123456")
		s.Require().Error(err)
		s.Equal(dErrors.CodeEvidenceRejected, dErrors.CodeOf(err))
	})
}

func (s *DevVerifierSuite) TestPhoneVerifier() {
	v := NewDevPhoneVerifier(otp.NewStore(), slog.Default())

	s.Run("plausible numbers pass", func() {
		s.NoError(v.Challenge(s.ctx, "+12125550100"))
		s.NoError(v.Challenge(s.ctx, "12125550100"))
	})

	s.Run("implausible numbers are validation errors", func() {
		for _, phone := range []string{"", "12345", "not-a-number", "+1 212 555 0100"} {
			err := v.Challenge(s.ctx, phone)
			s.Require().Error(err, "phone %q", phone)
			s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err), "phone %q", phone)
		}
	})
}

func (s *DevVerifierSuite) TestDocumentAnalyzer() {
	a := NewDevDocumentAnalyzer()

	s.Run("scan-like uploads pass", func() {
		for _, ref := range []string{"card.jpg", "card.JPEG", "card.png", "card.pdf"} {
			result, err := a.Analyze(s.ctx, ref)
			s.Require().NoError(err, "ref %q", ref)
			s.Contains(result.Reference, "document:")
		}
	})

	s.Run("other uploads are rejected as evidence", func() {
		_, err := a.Analyze(s.ctx, "card.exe")
		s.Equal(dErrors.CodeEvidenceRejected, dErrors.CodeOf(err))
	})

	s.Run("empty reference is a validation error", func() {
		_, err := a.Analyze(s.ctx, "")
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}

func (s *DevVerifierSuite) TestSocialVerifier() {
	v := NewDevSocialVerifier()

	s.Run("profile links on supported networks pass", func() {
		for _, u := range []string{
			"https://instagram.com/ana",
			"https://www.linkedin.com/in/ana",
			"https://facebook.com/ana.santos",
		} {
			result, err := v.Verify(s.ctx, u)
			s.Require().NoError(err, "url %q", u)
			s.Contains(result.Reference, "social:")
		}
	})

	s.Run("plain http or missing host is a validation error", func() {
		_, err := v.Verify(s.ctx, "http://instagram.com/ana")
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})

	s.Run("unsupported network is rejected as evidence", func() {
		_, err := v.Verify(s.ctx, "https://myspace.com/ana")
		s.Equal(dErrors.CodeEvidenceRejected, dErrors.CodeOf(err))
	})

	s.Run("homepage link without a profile path is rejected", func() {
		_, err := v.Verify(s.ctx, "https://instagram.com/")
		s.Equal(dErrors.CodeEvidenceRejected, dErrors.CodeOf(err))
	})
}

func (s *DevVerifierSuite) TestLocationVerifier() {
	// Campus at Morningside Heights with a five kilometer radius.
	v := NewDevLocationVerifier(40.8075, -73.9626, 5)

	s.Run("coordinates on campus pass", func() {
		result, err := v.Verify(s.ctx, 40.8100, -73.9600)
		s.Require().NoError(err)
		s.Contains(result.Reference, "location:")
	})

	s.Run("coordinates across the country are rejected as evidence", func() {
		_, err := v.Verify(s.ctx, 34.0522, -118.2437)
		s.Equal(dErrors.CodeEvidenceRejected, dErrors.CodeOf(err))
	})

	s.Run("out-of-range coordinates are validation errors", func() {
		_, err := v.Verify(s.ctx, 91, 0)
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	})
}
