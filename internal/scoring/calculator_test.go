package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"campustrust/internal/profile/models"
	"campustrust/internal/registry"
	id "campustrust/pkg/domain"
)

// =============================================================================
// Score Calculator Test Suite
// =============================================================================
// Justification for unit tests: the calculator is the arithmetic core every
// access decision depends on. Exercising clamping, expiry cutoffs, and
// duplicate handling precisely needs a controlled clock, which handler-level
// tests cannot pin per assertion.

type CalculatorSuite struct {
	suite.Suite
	reg *registry.Registry
	now time.Time
}

func TestCalculatorSuite(t *testing.T) {
	suite.Run(t, new(CalculatorSuite))
}

func (s *CalculatorSuite) SetupTest() {
	s.reg = registry.Default()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *CalculatorSuite) completion(m id.Method, completedAt time.Time) models.MethodCompletion {
	return models.MethodCompletion{
		UserID:      id.NewUserID(),
		MethodID:    m,
		CompletedAt: completedAt,
		Status:      models.CompletionVerified,
	}
}

// =============================================================================
// Compute Tests
// =============================================================================

func (s *CalculatorSuite) TestCompute() {
	s.Run("no completions scores zero", func() {
		s.Equal(0, Compute(s.reg, nil, s.now))
	})

	s.Run("verified email alone scores forty", func() {
		completions := []models.MethodCompletion{
			s.completion(id.MethodUniversityEmail, s.now.Add(-24*time.Hour)),
		}
		s.Equal(40, Compute(s.reg, completions, s.now))
	})

	s.Run("email plus student id scores seventy", func() {
		completions := []models.MethodCompletion{
			s.completion(id.MethodUniversityEmail, s.now.Add(-24*time.Hour)),
			s.completion(id.MethodStudentID, s.now.Add(-48*time.Hour)),
		}
		s.Equal(70, Compute(s.reg, completions, s.now))
	})

	s.Run("all methods score exactly one hundred", func() {
		var completions []models.MethodCompletion
		for _, m := range id.Methods() {
			completions = append(completions, s.completion(m, s.now.Add(-time.Hour)))
		}
		s.Equal(100, Compute(s.reg, completions, s.now))
	})

	s.Run("duplicate completions of one method never stack", func() {
		completions := []models.MethodCompletion{
			s.completion(id.MethodUniversityEmail, s.now.Add(-24*time.Hour)),
			s.completion(id.MethodUniversityEmail, s.now.Add(-48*time.Hour)),
			s.completion(id.MethodUniversityEmail, s.now.Add(-72*time.Hour)),
		}
		s.Equal(40, Compute(s.reg, completions, s.now))
	})

	s.Run("expired completion contributes nothing", func() {
		completions := []models.MethodCompletion{
			s.completion(id.MethodUniversityEmail, s.now.Add(-366*24*time.Hour)),
		}
		s.Equal(0, Compute(s.reg, completions, s.now))
	})

	s.Run("completion expiring exactly now no longer counts", func() {
		completions := []models.MethodCompletion{
			s.completion(id.MethodPhone, s.now.Add(-180*24*time.Hour)),
		}
		s.Equal(0, Compute(s.reg, completions, s.now))
	})

	s.Run("pending and rejected completions contribute nothing", func() {
		pending := s.completion(id.MethodUniversityEmail, s.now.Add(-time.Hour))
		pending.Status = models.CompletionPending
		rejected := s.completion(id.MethodStudentID, s.now.Add(-time.Hour))
		rejected.Status = models.CompletionRejected

		s.Equal(0, Compute(s.reg, []models.MethodCompletion{pending, rejected}, s.now))
	})

	s.Run("unknown method contributes nothing", func() {
		completions := []models.MethodCompletion{
			s.completion(id.Method("retina_scan"), s.now.Add(-time.Hour)),
		}
		s.Equal(0, Compute(s.reg, completions, s.now))
	})

	s.Run("recomputation is idempotent", func() {
		completions := []models.MethodCompletion{
			s.completion(id.MethodUniversityEmail, s.now.Add(-24*time.Hour)),
			s.completion(id.MethodPhone, s.now.Add(-24*time.Hour)),
		}
		first := Compute(s.reg, completions, s.now)
		for i := 0; i < 10; i++ {
			s.Equal(first, Compute(s.reg, completions, s.now))
		}
	})
}

// =============================================================================
// Clamping Tests
// =============================================================================

func (s *CalculatorSuite) TestClamping() {
	s.Run("scores above one hundred clamp to one hundred", func() {
		reg, err := registry.New([]registry.Method{
			{ID: id.MethodUniversityEmail, Weight: 80, Validity: time.Hour, Required: true, Effort: 1},
			{ID: id.MethodStudentID, Weight: 80, Validity: time.Hour, Required: true, Effort: 2},
		})
		s.Require().NoError(err)

		completions := []models.MethodCompletion{
			s.completion(id.MethodUniversityEmail, s.now.Add(-time.Minute)),
			s.completion(id.MethodStudentID, s.now.Add(-time.Minute)),
		}
		s.Equal(100, Compute(reg, completions, s.now))
	})
}

// =============================================================================
// ComputeProfile Tests
// =============================================================================

func (s *CalculatorSuite) TestComputeProfile() {
	s.Run("nil profile scores zero", func() {
		s.Equal(0, ComputeProfile(s.reg, nil, s.now))
	})

	s.Run("profile completion map scores like the slice form", func() {
		p := models.Guest(id.NewUserID())
		c := s.completion(id.MethodUniversityEmail, s.now.Add(-time.Hour))
		p.Completions[c.MethodID] = c

		s.Equal(40, ComputeProfile(s.reg, p, s.now))
	})
}

// =============================================================================
// Contributing Tests
// =============================================================================

func (s *CalculatorSuite) TestContributing() {
	s.Run("returns only current verified methods", func() {
		completions := []models.MethodCompletion{
			s.completion(id.MethodUniversityEmail, s.now.Add(-time.Hour)),
			s.completion(id.MethodPhone, s.now.Add(-200*24*time.Hour)),
		}
		contributing := Contributing(s.reg, completions, s.now)
		s.True(contributing[id.MethodUniversityEmail])
		s.False(contributing[id.MethodPhone])
	})
}
