package domain

import "github.com/shopspring/decimal"

// FeeKind selects the calculation strategy for one component of a fee
// schedule. Country-specific quirks become data (a kind plus a rate), never
// new code paths.
type FeeKind string

const (
	// FeeFlatAmount emits Amount as-is.
	FeeFlatAmount FeeKind = "flat_amount"
	// FeePercentOfValue charges Rate against the declared vehicle value.
	FeePercentOfValue FeeKind = "percent_of_value"
	// FeePercentOfCumulative charges Rate against the sum of the bases named
	// in DependsOn. This is how duty-inclusive VAT/GST is expressed: the base
	// list makes the "tax on tax" ordering explicit instead of implicit.
	FeePercentOfCumulative FeeKind = "percent_of_cumulative_value"
	// FeeTieredThreshold charges a marginal Rate on the portion of the base
	// above a threshold, selecting the band the base falls into. Luxury
	// surcharges use this kind exactly once per schedule.
	FeeTieredThreshold FeeKind = "tiered_threshold"
)

// BaseDeclaredValue is the pseudo-component name a cumulative fee uses to
// include the declared vehicle value in its base.
const BaseDeclaredValue = "declared_value"

// TierBase selects which value a tiered component bands against.
type TierBase string

const (
	TierBaseDeclared   TierBase = "declared"
	TierBaseCumulative TierBase = "cumulative"
)

// FeeTier is one band of a tiered component: amounts above Threshold are
// charged at Rate. Tiers must be declared in ascending threshold order.
type FeeTier struct {
	Threshold decimal.Decimal `json:"threshold"`
	Rate      decimal.Decimal `json:"rate"`
}

// FeeComponent is one step of a jurisdiction's ordered fee pipeline.
type FeeComponent struct {
	Name      string            `json:"name"`
	Kind      FeeKind           `json:"kind"`
	Rate      decimal.Decimal   `json:"rate,omitempty"`   // fraction, e.g. 0.061 for 6.1%
	Amount    decimal.Decimal   `json:"amount,omitempty"` // flat_amount only
	DependsOn []string          `json:"depends_on,omitempty"`
	Tiers     []FeeTier         `json:"tiers,omitempty"`
	TierBase  TierBase          `json:"tier_base,omitempty"`
	AppliesTo []VehicleCategory `json:"applies_to_categories,omitempty"` // empty = all categories
}

// AppliesToCategory reports whether the component participates for the given
// vehicle category. Filtered components are skipped entirely, not included
// with a zero amount.
func (c FeeComponent) AppliesToCategory(category VehicleCategory) bool {
	if len(c.AppliesTo) == 0 {
		return true
	}
	for _, cat := range c.AppliesTo {
		if cat == category {
			return true
		}
	}
	return false
}
