package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ToolName identifies which advisor operation produced a journey record.
type ToolName string

const (
	ToolEligibilityCheck      ToolName = "eligibility_check"
	ToolCostEstimate          ToolName = "cost_estimate"
	ToolDestinationAssessment ToolName = "destination_assessment"
	ToolDestinationComparison ToolName = "destination_comparison"
	ToolShippingOutlook       ToolName = "shipping_outlook"
	ToolComplianceChecklist   ToolName = "compliance_checklist"
)

// JourneyRecord captures one tool invocation within a user session so a
// multi-step journey can be replayed and audited. Records are created once
// and never mutated; retention is an external policy.
type JourneyRecord struct {
	ID        uuid.UUID       `json:"id"`
	SessionID string          `json:"session_id"`
	Tool      ToolName        `json:"tool"`
	Input     json.RawMessage `json:"input"`
	Output    json.RawMessage `json:"output"`
	CreatedAt time.Time       `json:"created_at"`
	// Seq disambiguates near-simultaneous writes within a session; fetch
	// order is creation time, ties broken by write arrival.
	Seq uint64 `json:"seq"`
}
