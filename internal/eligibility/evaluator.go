// Package eligibility decides whether a vehicle is admissible into a
// jurisdiction. Evaluation is pure rule traversal over the jurisdiction
// record; the same inputs always yield the same verdict.
package eligibility

import (
	"fmt"
	"strings"
	"time"

	"driveport/internal/domain"
)

// Options carries evaluation context that is not part of the vehicle or the
// record itself.
type Options struct {
	// Now anchors the age computation. Zero means time.Now().
	Now time.Time
	// UsedCountryFallback marks that the record (or its eligibility sections)
	// came from the parent country rather than the requested sub-region.
	// Verdicts computed under fallback carry low confidence.
	UsedCountryFallback bool
}

// Evaluate applies the jurisdiction's admissibility rules in precedence
// order: category prohibition first, then exemption rules in declared order
// (first match wins), then the category's minimum-age gate. An exemption can
// admit a vehicle the default gate would reject, but nothing overrides a
// prohibition.
//
// Eligibility means admissibility, not zero remaining steps: an eligible
// verdict still lists the inspections and certificates the importer has
// ahead of them.
func Evaluate(record domain.JurisdictionRecord, vehicle domain.VehicleDescriptor, opts Options) domain.EligibilityVerdict {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	age := vehicle.AgeYears(now)

	verdict := domain.EligibilityVerdict{
		JurisdictionCode: record.Code,
		VehicleAgeYears:  age,
		Confidence:       confidence(record, vehicle, opts),
	}

	reqs := record.Requirements

	if reqs.Prohibits(vehicle.Category) {
		verdict.Eligible = false
		verdict.AppliedRule = domain.RuleCategoryProhibited
		verdict.UnmetRequirements = append(
			[]string{fmt.Sprintf("category %q is not permitted for import", vehicle.Category)},
			reqs.MandatoryDocuments...,
		)
		return verdict
	}

	for _, rule := range reqs.ExemptionRules {
		if rule.Matches(vehicle.Category, age) {
			verdict.Eligible = true
			verdict.AppliedRule = rule.Name
			verdict.UnmetRequirements = pendingSteps(record)
			return verdict
		}
	}

	gate, hasGate := reqs.MinimumAgeFor(vehicle.Category)
	if !hasGate {
		verdict.Eligible = true
		verdict.AppliedRule = domain.RuleNoAgeRestriction
		verdict.UnmetRequirements = pendingSteps(record)
		return verdict
	}

	if age < gate.MinAgeYears {
		verdict.Eligible = false
		verdict.AppliedRule = domain.RuleMinimumAge
		verdict.UnmetRequirements = append(
			[]string{fmt.Sprintf("vehicle must be at least %d years old (currently %d)", gate.MinAgeYears, age)},
			reqs.MandatoryDocuments...,
		)
		return verdict
	}

	verdict.Eligible = true
	verdict.AppliedRule = domain.RuleMinimumAge
	verdict.UnmetRequirements = pendingSteps(record)
	return verdict
}

// pendingSteps lists what an admissible vehicle still has to clear, in the
// order the jurisdiction prescribes.
func pendingSteps(record domain.JurisdictionRecord) []string {
	reqs := record.Requirements
	steps := make([]string, 0, len(reqs.MandatoryInspections)+1)
	steps = append(steps, reqs.MandatoryInspections...)
	if reqs.RequiresConformityCertificate {
		steps = append(steps, "conformity_certificate")
	}
	return steps
}

// confidence grades how complete the inputs to the verdict were. Fallback to
// country-level data dominates; otherwise a missing engine description
// degrades to medium when the jurisdiction screens emissions.
func confidence(record domain.JurisdictionRecord, vehicle domain.VehicleDescriptor, opts Options) domain.ConfidenceTier {
	if opts.UsedCountryFallback {
		return domain.ConfidenceLow
	}
	if vehicle.Engine == nil && screensEmissions(record) {
		return domain.ConfidenceMedium
	}
	return domain.ConfidenceHigh
}

func screensEmissions(record domain.JurisdictionRecord) bool {
	for _, kind := range record.Requirements.MandatoryInspections {
		if strings.Contains(kind, "emissions") {
			return true
		}
	}
	return false
}
