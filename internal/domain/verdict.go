package domain

// ConfidenceTier signals how much of a verdict relied on exact sub-region
// data versus fallback or defaulted fields.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceLow    ConfidenceTier = "low"
)

// Applied-rule identifiers for verdicts that did not fire a named exemption.
const (
	RuleCategoryProhibited = "category_prohibited"
	RuleMinimumAge         = "minimum_age"
	RuleNoAgeRestriction   = "no_age_restriction"
)

// EligibilityVerdict is the evaluator's output. Eligibility is about
// admissibility, not zero remaining steps: a vehicle can be eligible and
// still carry unmet requirements such as an outstanding inspection.
type EligibilityVerdict struct {
	JurisdictionCode  string         `json:"jurisdiction_code"`
	Eligible          bool           `json:"eligible"`
	VehicleAgeYears   int            `json:"vehicle_age_years"`
	AppliedRule       string         `json:"applied_rule"`
	UnmetRequirements []string       `json:"unmet_requirements,omitempty"` // ordered
	Confidence        ConfidenceTier `json:"confidence"`
}
