package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "campustrust/pkg/domain"
)

// =============================================================================
// Registry Test Suite
// =============================================================================

type RegistrySuite struct {
	suite.Suite
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *RegistrySuite) TestNew() {
	s.Run("empty method list returns error", func() {
		_, err := New(nil)
		s.Error(err)
		s.Contains(err.Error(), "at least one method")
	})

	s.Run("unknown method returns error", func() {
		_, err := New([]Method{
			{ID: id.Method("carrier_pigeon"), Weight: 100, Validity: time.Hour},
		})
		s.Error(err)
		s.Contains(err.Error(), "unknown method")
	})

	s.Run("duplicate method returns error", func() {
		_, err := New([]Method{
			{ID: id.MethodPhone, Weight: 60, Validity: time.Hour},
			{ID: id.MethodPhone, Weight: 40, Validity: time.Hour},
		})
		s.Error(err)
		s.Contains(err.Error(), "duplicate method")
	})

	s.Run("non-positive weight returns error", func() {
		_, err := New([]Method{
			{ID: id.MethodPhone, Weight: 0, Validity: time.Hour},
		})
		s.Error(err)
		s.Contains(err.Error(), "weight must be positive")
	})

	s.Run("non-positive validity returns error", func() {
		_, err := New([]Method{
			{ID: id.MethodPhone, Weight: 100},
		})
		s.Error(err)
		s.Contains(err.Error(), "validity must be positive")
	})

	s.Run("weights below score ceiling return error", func() {
		_, err := New([]Method{
			{ID: id.MethodPhone, Weight: 50, Validity: time.Hour},
			{ID: id.MethodLocation, Weight: 40, Validity: time.Hour},
		})
		s.Error(err)
		s.Contains(err.Error(), "need >= 100")
	})
}

// =============================================================================
// Default Table Tests
// =============================================================================

func (s *RegistrySuite) TestDefault() {
	reg := Default()

	s.Run("covers every known method", func() {
		for _, m := range id.Methods() {
			_, ok := reg.Get(m)
			s.True(ok, "method %s missing from default table", m)
		}
	})

	s.Run("weights sum to exactly one hundred", func() {
		s.Equal(100, reg.TotalWeight())
	})

	s.Run("email, student id, and phone are required", func() {
		required := reg.Required()
		s.Len(required, 3)
		ids := make([]id.Method, 0, len(required))
		for _, m := range required {
			ids = append(ids, m.ID)
		}
		s.ElementsMatch(ids,
			[]id.Method{id.MethodUniversityEmail, id.MethodStudentID, id.MethodPhone})
	})

	s.Run("social media and location are optional", func() {
		optional := reg.Optional()
		s.Len(optional, 2)
	})

	s.Run("ordering is required first then ascending effort", func() {
		all := reg.All()
		s.Equal(id.MethodUniversityEmail, all[0].ID)
		s.Equal(id.MethodPhone, all[1].ID)
		s.Equal(id.MethodStudentID, all[2].ID)
		s.Equal(id.MethodSocialMedia, all[3].ID)
		s.Equal(id.MethodLocation, all[4].ID)
	})
}

// =============================================================================
// Lookup Tests
// =============================================================================

func (s *RegistrySuite) TestGet() {
	reg := Default()

	s.Run("known method returns its row", func() {
		m, ok := reg.Get(id.MethodUniversityEmail)
		s.True(ok)
		s.Equal(40, m.Weight)
		s.True(m.Required)
	})

	s.Run("unknown method reports absence", func() {
		_, ok := reg.Get(id.Method("fingerprint"))
		s.False(ok)
	})
}
