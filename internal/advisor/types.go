package advisor

import (
	"time"

	"driveport/internal/domain"
	"driveport/internal/ranking"
)

// Assessment combines the two halves of a single-destination call.
type Assessment struct {
	Eligibility domain.EligibilityVerdict `json:"eligibility"`
	Costs       domain.CostBreakdown      `json:"costs"`
}

// Comparison is the multi-destination result: eligible destinations in rank
// order, ineligible ones with reasons, and the codes the registry had no
// data for. Partial success is the norm; a missing jurisdiction never fails
// the comparison.
type Comparison struct {
	Ranked     []ranking.RankedResult     `json:"ranked"`
	Ineligible []ranking.IneligibleResult `json:"ineligible"`
	NoData     []string                   `json:"no_data,omitempty"`
}

// Outlook summarizes shipping and processing logistics for a destination.
type Outlook struct {
	JurisdictionCode   string   `json:"jurisdiction_code"`
	EstimatedTotalDays int      `json:"estimated_total_days"`
	ProcessingDaysMin  int      `json:"processing_days_min"`
	ProcessingDaysMax  int      `json:"processing_days_max"`
	PeakDelayWindows   []string `json:"peak_delay_windows,omitempty"`
	Ports              []string `json:"ports,omitempty"`
	AgentSuggestions   []string `json:"agent_suggestions,omitempty"`
}

// Checklist is the ordered set of steps an importer has to clear for a
// destination, assembled from the jurisdiction's requirements and
// registration process.
type Checklist struct {
	JurisdictionCode              string    `json:"jurisdiction_code"`
	AuthorityName                 string    `json:"authority_name"`
	ReferenceURL                  string    `json:"reference_url"`
	Documents                     []string  `json:"documents,omitempty"`
	Inspections                   []string  `json:"inspections,omitempty"`
	SpecialConditions             []string  `json:"special_conditions,omitempty"`
	RequiresConformityCertificate bool      `json:"requires_conformity_certificate"`
	RequiresPhysicalInspection    bool      `json:"requires_physical_inspection"`
	ProcessingDaysMin             int       `json:"processing_days_min"`
	ProcessingDaysMax             int       `json:"processing_days_max"`
	DifficultyTier                string    `json:"difficulty_tier"`
	LastVerified                  time.Time `json:"last_verified"`
}

// journey input snapshots, serialized into the ledger as-invoked.

type vehicleInput struct {
	Vehicle          domain.VehicleDescriptor `json:"vehicle"`
	JurisdictionCode string                   `json:"jurisdiction_code"`
}

type comparisonInput struct {
	Vehicle           domain.VehicleDescriptor `json:"vehicle"`
	JurisdictionCodes []string                 `json:"jurisdiction_codes"`
	Criteria          ranking.Criteria         `json:"criteria"`
}

type codeInput struct {
	JurisdictionCode string `json:"jurisdiction_code"`
}
