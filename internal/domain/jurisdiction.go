package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DifficultyTier grades how involved the registration process is. The order
// matters for ranking: simpler tiers score higher under the simplicity
// criterion.
type DifficultyTier string

const (
	DifficultyEasy        DifficultyTier = "easy"
	DifficultyModerate    DifficultyTier = "moderate"
	DifficultyComplex     DifficultyTier = "complex"
	DifficultyVeryComplex DifficultyTier = "very_complex"
)

var difficultyRank = map[DifficultyTier]int{
	DifficultyEasy:        0,
	DifficultyModerate:    1,
	DifficultyComplex:     2,
	DifficultyVeryComplex: 3,
}

// Rank returns the ordinal position of the tier; unknown tiers sort last.
func (d DifficultyTier) Rank() int {
	if r, ok := difficultyRank[d]; ok {
		return r
	}
	return len(difficultyRank)
}

// StrictnessTier grades how aggressively a jurisdiction enforces compliance.
type StrictnessTier string

const (
	StrictnessLow      StrictnessTier = "low"
	StrictnessModerate StrictnessTier = "moderate"
	StrictnessHigh     StrictnessTier = "high"
	StrictnessVeryHigh StrictnessTier = "very_high"
)

// Registration describes the registration process once the vehicle has
// cleared customs.
type Registration struct {
	RequiresPhysicalInspection bool            `json:"requires_physical_inspection"`
	InspectionKinds            []string        `json:"inspection_kinds,omitempty"`
	BaseRegistrationFee        decimal.Decimal `json:"base_registration_fee"`
	PlateFee                   decimal.Decimal `json:"plate_fee"`
	ProcessingDaysMin          int             `json:"processing_days_min"`
	ProcessingDaysMax          int             `json:"processing_days_max"`
	DifficultyTier             DifficultyTier  `json:"difficulty_tier"`
}

// AgeRule sets the minimum vehicle age for one category. A rule with an empty
// category is the jurisdiction default.
type AgeRule struct {
	Category    VehicleCategory `json:"category,omitempty"`
	MinAgeYears int             `json:"min_age_years"`
}

// ExemptionRule lifts the default age gate when it matches. Rules are checked
// in declared order and the first match wins, so authors can put narrow
// exemptions before broad ones.
type ExemptionRule struct {
	Name        string          `json:"name"`
	Category    VehicleCategory `json:"category,omitempty"` // empty matches any category
	MinAgeYears int             `json:"min_age_years"`
	Notes       string          `json:"notes,omitempty"`
}

// Matches reports whether the rule fires for the given category and age.
func (r ExemptionRule) Matches(category VehicleCategory, ageYears int) bool {
	if r.Category != "" && r.Category != category {
		return false
	}
	return ageYears >= r.MinAgeYears
}

// ImportRequirements captures the admissibility side of a jurisdiction:
// what must be true of the vehicle, and what paperwork clears it.
type ImportRequirements struct {
	MandatoryInspections          []string          `json:"mandatory_inspections,omitempty"` // ordered
	MandatoryDocuments            []string          `json:"mandatory_documents,omitempty"`
	SpecialConditions             []string          `json:"special_conditions,omitempty"`
	ExemptionRules                []ExemptionRule   `json:"exemption_rules,omitempty"` // ordered, first match wins
	ProhibitedCategories          []VehicleCategory `json:"prohibited_categories,omitempty"`
	RequiresConformityCertificate bool              `json:"requires_conformity_certificate"`
	MinimumAgeRules               []AgeRule         `json:"minimum_age_rules,omitempty"`
}

// MinimumAgeFor returns the minimum age rule for a category, falling back to
// the jurisdiction default (empty-category rule). The second return reports
// whether any rule applies at all.
func (ir ImportRequirements) MinimumAgeFor(category VehicleCategory) (AgeRule, bool) {
	var fallback *AgeRule
	for i := range ir.MinimumAgeRules {
		rule := ir.MinimumAgeRules[i]
		if rule.Category == category {
			return rule, true
		}
		if rule.Category == "" && fallback == nil {
			fallback = &ir.MinimumAgeRules[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return AgeRule{}, false
}

// Prohibits reports whether the category is banned outright.
func (ir ImportRequirements) Prohibits(category VehicleCategory) bool {
	for _, banned := range ir.ProhibitedCategories {
		if banned == category {
			return true
		}
	}
	return false
}

// RegionalNotes are advisory logistics data surfaced to the caller; they do
// not influence eligibility or cost computation, only ranking (speed) and the
// shipping outlook.
type RegionalNotes struct {
	EstimatedTotalDays int      `json:"estimated_total_days"`
	PeakDelayWindows   []string `json:"peak_delay_windows,omitempty"`
	AgentSuggestions   []string `json:"agent_suggestions,omitempty"`
	Ports              []string `json:"ports,omitempty"`
}

// JurisdictionRecord is the unit of regulatory truth: one country, or one
// country+sub-region, with everything the engine needs to compute against it.
// Records are authored out-of-band as plain data files and validated once at
// registry load; request-time code treats them as immutable.
type JurisdictionRecord struct {
	Code          string             `json:"code"` // "US" or "US-CA"
	AuthorityName string             `json:"authority_name"`
	ReferenceURL  string             `json:"reference_url"`
	Currency      string             `json:"currency"`
	Registration  Registration       `json:"registration"`
	Requirements  ImportRequirements `json:"import_requirements"`
	FeeSchedule   []FeeComponent     `json:"fee_schedule"`
	Notes         RegionalNotes      `json:"regional_notes"`
	Strictness    StrictnessTier     `json:"compliance_strictness"`
	LastVerified  time.Time          `json:"last_verified"`
}

// CountryCode strips the sub-region suffix, if any.
func (r JurisdictionRecord) CountryCode() string {
	if i := strings.IndexByte(r.Code, '-'); i > 0 {
		return r.Code[:i]
	}
	return r.Code
}

// IsSubRegion reports whether the record refines a parent country record.
func (r JurisdictionRecord) IsSubRegion() bool {
	return strings.IndexByte(r.Code, '-') > 0
}

// NormalizeCode canonicalizes caller-supplied jurisdiction codes. Codes are
// case-insensitive at the boundary and uppercase internally.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
