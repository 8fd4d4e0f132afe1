// Package tariff computes itemized import cost breakdowns from a
// jurisdiction's ordered fee schedule. The calculator is pure: no shared
// state, no I/O, identical inputs always produce identical breakdowns.
package tariff

import (
	"github.com/shopspring/decimal"

	"driveport/internal/domain"
	dErrors "driveport/pkg/domain-errors"
)

// ComputeCosts walks record.FeeSchedule in declared order and emits one line
// item per applicable component. Intermediate arithmetic stays exact; each
// line item is rounded to the jurisdiction currency's minor unit for display
// and the grand total is rounded once from the unrounded sum.
//
// Schedules are validated at registry load, so dependency ordering violations
// cannot occur here. A component filtered out by category is skipped, not
// included with a zero amount.
func ComputeCosts(record domain.JurisdictionRecord, vehicle domain.VehicleDescriptor) (domain.CostBreakdown, error) {
	if err := vehicle.Validate(); err != nil {
		return domain.CostBreakdown{}, err
	}

	// Named bases for cumulative components. The declared value participates
	// under its pseudo-component name; skipped components simply never
	// register a base and contribute nothing.
	bases := map[string]decimal.Decimal{
		domain.BaseDeclaredValue: vehicle.DeclaredValue,
	}

	// Running value of vehicle plus fees so far, for tiered components that
	// band against the cumulative value.
	cumulative := vehicle.DeclaredValue

	feesTotal := decimal.Zero
	items := make([]domain.CostLineItem, 0, len(record.FeeSchedule))

	for _, component := range record.FeeSchedule {
		if !component.AppliesToCategory(vehicle.Category) {
			continue
		}

		var amount decimal.Decimal
		switch component.Kind {
		case domain.FeeFlatAmount:
			amount = component.Amount
		case domain.FeePercentOfValue:
			amount = vehicle.DeclaredValue.Mul(component.Rate)
		case domain.FeePercentOfCumulative:
			base := decimal.Zero
			for _, dep := range component.DependsOn {
				base = base.Add(bases[dep])
			}
			amount = base.Mul(component.Rate)
		case domain.FeeTieredThreshold:
			base := vehicle.DeclaredValue
			if component.TierBase == domain.TierBaseCumulative {
				base = cumulative
			}
			amount = tieredAmount(base, component.Tiers)
		default:
			return domain.CostBreakdown{}, dErrors.New(dErrors.CodeDataIntegrity,
				"unknown fee kind in schedule for "+record.Code)
		}

		bases[component.Name] = amount
		cumulative = cumulative.Add(amount)
		feesTotal = feesTotal.Add(amount)

		items = append(items, domain.CostLineItem{
			Name:         component.Name,
			Amount:       domain.RoundMoney(amount, record.Currency),
			RunningTotal: domain.RoundMoney(feesTotal, record.Currency),
		})
	}

	return domain.CostBreakdown{
		JurisdictionCode: record.Code,
		Currency:         record.Currency,
		LineItems:        items,
		GrandTotal:       domain.RoundMoney(feesTotal, record.Currency),
	}, nil
}

// tieredAmount applies marginal rates band by band: the portion of base
// between a tier's threshold and the next threshold is charged at that tier's
// rate. A base at or below the first threshold owes nothing.
func tieredAmount(base decimal.Decimal, tiers []domain.FeeTier) decimal.Decimal {
	total := decimal.Zero
	for i, tier := range tiers {
		if base.LessThanOrEqual(tier.Threshold) {
			break
		}
		upper := base
		if i+1 < len(tiers) && tiers[i+1].Threshold.LessThan(base) {
			upper = tiers[i+1].Threshold
		}
		total = total.Add(upper.Sub(tier.Threshold).Mul(tier.Rate))
	}
	return total
}
