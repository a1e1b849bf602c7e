package perdiem

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// BANDS - Duration buckets selecting flat-rate table entries
// =============================================================================
// Boundary values belong to the upper band: exactly 5 hours at home is
// "5_to_12", exactly 18 foreign hours is "over_18".

// Band names a bucket of accumulated hours. The zero bands (under_5,
// under_1) and the blocked marker appear in output as data, never as errors.
type Band string

const (
	// Domestic bands.
	BandUnder5 Band = "under_5"
	Band5To12  Band = "5_to_12"

	// Foreign bands.
	BandUnder1 Band = "under_1"
	Band1To12  Band = "1_to_12"

	// Shared upper bands.
	Band12To18 Band = "12_to_18"
	BandOver18 Band = "over_18"

	// BandBlocked marks a foreign entry suppressed by the
	// entitlement-blocking rule.
	BandBlocked Band = "blocked"
)

// Zero reports whether the band carries no entitlement.
func (b Band) Zero() bool {
	return b == BandUnder5 || b == BandUnder1 || b == BandBlocked
}

// DomesticBand buckets hours spent in the home country.
func DomesticBand(hours float64) Band {
	switch {
	case hours < 5:
		return BandUnder5
	case hours < 12:
		return Band5To12
	case hours < 18:
		return Band12To18
	default:
		return BandOver18
	}
}

// ForeignBand buckets merged hours spent abroad.
func ForeignBand(hours float64) Band {
	switch {
	case hours < 1:
		return BandUnder1
	case hours < 12:
		return Band1To12
	case hours < 18:
		return Band12To18
	default:
		return BandOver18
	}
}

// ApplyMealReduction lowers a base amount by pctPerMeal percent for each
// employer-provided meal. The factor never goes below zero, so the result
// is non-increasing in meals and never negative. No rounding here; the
// caller rounds the final amount.
func ApplyMealReduction(base, pctPerMeal decimal.Decimal, meals int) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(
		decimal.NewFromInt(int64(meals)).Mul(pctPerMeal).Div(decimal.NewFromInt(100)))
	if factor.IsNegative() {
		factor = decimal.Zero
	}
	return base.Mul(factor)
}
