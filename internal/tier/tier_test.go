package tier

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Tier Classification Test Suite
// =============================================================================

type TierSuite struct {
	suite.Suite
}

func TestTierSuite(t *testing.T) {
	suite.Run(t, new(TierSuite))
}

func (s *TierSuite) TestClassify() {
	s.Run("boundary scores map onto the expected tiers", func() {
		cases := []struct {
			score int
			want  Tier
		}{
			{0, Unverified},
			{30, Unverified},
			{31, Basic},
			{69, Basic},
			{70, Verified},
			{99, Verified},
			{100, Premium},
			{150, Premium},
			{-5, Unverified},
		}
		for _, c := range cases {
			s.Equal(c.want, Classify(c.score), "score %d", c.score)
		}
	})
}

func (s *TierSuite) TestBenefits() {
	s.Run("unverified gets nothing", func() {
		s.Empty(Benefits(Unverified))
	})

	s.Run("benefits accumulate monotonically with tier", func() {
		order := []Tier{Unverified, Basic, Verified, Premium}
		for i := 1; i < len(order); i++ {
			lower := Benefits(order[i-1])
			higher := Benefits(order[i])
			s.Greater(len(higher), len(lower))
			for _, b := range lower {
				s.True(HasBenefit(order[i], b),
					"tier %s lost benefit %s held by %s", order[i], b, order[i-1])
			}
		}
	})

	s.Run("premium unlocks the full bundle", func() {
		s.Len(Benefits(Premium), 5)
		s.True(HasBenefit(Premium, BenefitPremiumListings))
		s.True(HasBenefit(Premium, BenefitPriorityBooking))
	})

	s.Run("unknown tier yields no benefits", func() {
		s.Nil(Benefits(Tier("platinum")))
		s.False(HasBenefit(Tier("platinum"), BenefitBookings))
	})
}
