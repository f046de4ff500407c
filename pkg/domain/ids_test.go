package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	dErrors "campustrust/pkg/domain-errors"
)

// =============================================================================
// Typed ID Test Suite
// =============================================================================

type IDSuite struct {
	suite.Suite
}

func TestIDSuite(t *testing.T) {
	suite.Run(t, new(IDSuite))
}

func (s *IDSuite) TestParseUserID() {
	s.Run("valid UUID parses", func() {
		raw := uuid.New().String()
		parsed, err := ParseUserID(raw)
		s.Require().NoError(err)
		s.Equal(raw, parsed.String())
		s.False(parsed.IsNil())
	})

	s.Run("empty input is rejected", func() {
		_, err := ParseUserID("")
		s.Require().Error(err)
		s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))
	})

	s.Run("malformed input is rejected", func() {
		_, err := ParseUserID("not-a-uuid")
		s.Require().Error(err)
		s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))
	})

	s.Run("nil UUID is rejected", func() {
		_, err := ParseUserID(uuid.Nil.String())
		s.Require().Error(err)
		s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))
	})
}

func (s *IDSuite) TestNewIDs() {
	s.Run("generated IDs are unique and non-nil", func() {
		a, b := NewUserID(), NewUserID()
		s.NotEqual(a, b)
		s.False(a.IsNil())

		s.False(NewSessionID().IsNil())
		s.False(NewRenewalID().IsNil())
	})
}

// =============================================================================
// Method Enum Tests
// =============================================================================

func (s *IDSuite) TestParseMethod() {
	s.Run("every canonical method parses", func() {
		for _, m := range Methods() {
			parsed, err := ParseMethod(m.String())
			s.Require().NoError(err)
			s.Equal(m, parsed)
		}
	})

	s.Run("empty input is rejected", func() {
		_, err := ParseMethod("")
		s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))
	})

	s.Run("unsupported method is rejected", func() {
		_, err := ParseMethod("blockchain_attestation")
		s.Equal(dErrors.CodeInvalidInput, dErrors.CodeOf(err))
	})

	s.Run("canonical order is stable", func() {
		s.Equal([]Method{
			MethodUniversityEmail,
			MethodStudentID,
			MethodPhone,
			MethodSocialMedia,
			MethodLocation,
		}, Methods())
	})
}
