package filter

// Tier is the severity bucket derived from how many days rent is late.
type Tier string

// Arrears tiers, least to most severe.
const (
	TierLow      Tier = "LOW"
	TierMedium   Tier = "MEDIUM"
	TierHigh     Tier = "HIGH"
	TierCritical Tier = "CRITICAL"
)

// AllTiers is the ordered list of tiers.
var AllTiers = []Tier{TierLow, TierMedium, TierHigh, TierCritical}

// Tier lower bounds in days late. Each bound is inclusive.
const (
	lowFromDays      = 7
	mediumFromDays   = 14
	highFromDays     = 21
	criticalFromDays = 28
)

// TierFor buckets daysLate. Balances under a week late belong to no tier,
// reported as ok == false.
func TierFor(daysLate int) (tier Tier, ok bool) {
	switch {
	case daysLate >= criticalFromDays:
		return TierCritical, true
	case daysLate >= highFromDays:
		return TierHigh, true
	case daysLate >= mediumFromDays:
		return TierMedium, true
	case daysLate >= lowFromDays:
		return TierLow, true
	default:
		return "", false
	}
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	for _, k := range AllTiers {
		if t == k {
			return true
		}
	}
	return false
}
