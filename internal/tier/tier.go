// Package tier maps composite trust scores onto discrete access tiers and
// the benefit bundles each tier unlocks. Everything here is pure: no I/O, no
// failure modes.
package tier

// Tier is the discrete access level derived from a score.
type Tier string

const (
	Unverified Tier = "unverified"
	Basic      Tier = "basic"
	Verified   Tier = "verified"
	Premium    Tier = "premium"
)

// Score thresholds, inclusive on the lower bound. Premium requires a perfect
// score: every method verified and current.
const (
	BasicMin    = 31
	VerifiedMin = 70
	PremiumMin  = 100
)

// Benefit names a marketplace feature unlocked by tier membership.
type Benefit string

const (
	BenefitCommunityAccess  Benefit = "community_access"
	BenefitBookings         Benefit = "bookings"
	BenefitStudentDiscounts Benefit = "student_discounts"
	BenefitPriorityBooking  Benefit = "priority_booking"
	BenefitPremiumListings  Benefit = "premium_listings"
)

// benefitsByTier lists what each tier adds. Benefits are monotonically
// additive: every benefit of a lower tier remains available above it.
var benefitsByTier = map[Tier][]Benefit{
	Unverified: {},
	Basic:      {BenefitCommunityAccess},
	Verified:   {BenefitCommunityAccess, BenefitBookings, BenefitStudentDiscounts},
	Premium: {
		BenefitCommunityAccess,
		BenefitBookings,
		BenefitStudentDiscounts,
		BenefitPriorityBooking,
		BenefitPremiumListings,
	},
}

// Classify maps a score onto its tier. Scores outside [0,100] are treated as
// their clamped value so the function never fails.
func Classify(score int) Tier {
	switch {
	case score >= PremiumMin:
		return Premium
	case score >= VerifiedMin:
		return Verified
	case score >= BasicMin:
		return Basic
	default:
		return Unverified
	}
}

// Benefits returns the ordered benefit list for a tier.
func Benefits(t Tier) []Benefit {
	benefits, ok := benefitsByTier[t]
	if !ok {
		return nil
	}
	out := make([]Benefit, len(benefits))
	copy(out, benefits)
	return out
}

// HasBenefit reports whether the tier unlocks the given benefit.
func HasBenefit(t Tier, b Benefit) bool {
	for _, have := range benefitsByTier[t] {
		if have == b {
			return true
		}
	}
	return false
}
