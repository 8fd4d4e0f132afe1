// Package ranking orders assessed destinations by caller-selected criteria.
// Ranking is pure and deterministic: identical inputs always produce the
// same order, including among tied scores.
package ranking

import (
	"sort"

	"github.com/shopspring/decimal"

	"driveport/internal/domain"
)

// Criteria selects which qualities contribute to a destination's score.
// Criteria are independent toggles; enabling none ranks purely on the
// tie-break chain.
type Criteria struct {
	PrioritizeCost       bool `json:"prioritize_cost"`
	PrioritizeSpeed      bool `json:"prioritize_speed"`
	PrioritizeSimplicity bool `json:"prioritize_simplicity"`
}

// Fixed weights per satisfied criterion. Cost dominates speed dominates
// simplicity when several criteria are active at once.
const (
	weightCost       = 3
	weightSpeed      = 2
	weightSimplicity = 1
)

// Result pairs one jurisdiction's record with the verdict and cost breakdown
// computed for the vehicle under comparison.
type Result struct {
	Record    domain.JurisdictionRecord
	Verdict   domain.EligibilityVerdict
	Breakdown domain.CostBreakdown
}

// RankedResult is a Result admitted to the primary list, with its score.
type RankedResult struct {
	Result
	Score int `json:"score"`
}

// IneligibleResult explains why a destination was excluded from ranking
// rather than silently dropping it.
type IneligibleResult struct {
	JurisdictionCode string                    `json:"jurisdiction_code"`
	Verdict          domain.EligibilityVerdict `json:"verdict"`
}

// Ranking is the ranker's output: the scored eligible destinations in rank
// order, and the ineligible ones with their reasons.
type Ranking struct {
	Ranked     []RankedResult     `json:"ranked"`
	Ineligible []IneligibleResult `json:"ineligible"`
}

// Rank scores every eligible result against the criteria and sorts
// descending by score, breaking ties by ascending grand total, then
// ascending estimated total days, then jurisdiction code. Ineligible results
// go to the secondary list in jurisdiction-code order.
func Rank(results []Result, criteria Criteria) Ranking {
	eligible := make([]Result, 0, len(results))
	var ineligible []IneligibleResult
	for _, r := range results {
		if r.Verdict.Eligible {
			eligible = append(eligible, r)
		} else {
			ineligible = append(ineligible, IneligibleResult{
				JurisdictionCode: r.Record.Code,
				Verdict:          r.Verdict,
			})
		}
	}
	sort.Slice(ineligible, func(i, j int) bool {
		return ineligible[i].JurisdictionCode < ineligible[j].JurisdictionCode
	})

	costBar := meanGrandTotal(eligible)
	speedBar := meanEstimatedDays(eligible)

	ranked := make([]RankedResult, 0, len(eligible))
	for _, r := range eligible {
		ranked = append(ranked, RankedResult{Result: r, Score: score(r, criteria, costBar, speedBar)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if cmp := a.Breakdown.GrandTotal.Cmp(b.Breakdown.GrandTotal); cmp != 0 {
			return cmp < 0
		}
		if a.Record.Notes.EstimatedTotalDays != b.Record.Notes.EstimatedTotalDays {
			return a.Record.Notes.EstimatedTotalDays < b.Record.Notes.EstimatedTotalDays
		}
		return a.Record.Code < b.Record.Code
	})

	return Ranking{Ranked: ranked, Ineligible: ineligible}
}

// score sums the fixed weights of every active, satisfied criterion. Cost
// and speed satisfy when at or below the mean across the eligible set, so
// "cheap" and "fast" stay meaningful whatever the currency scale.
func score(r Result, criteria Criteria, costBar decimal.Decimal, speedBar int) int {
	total := 0
	if criteria.PrioritizeCost && r.Breakdown.GrandTotal.LessThanOrEqual(costBar) {
		total += weightCost
	}
	if criteria.PrioritizeSpeed && r.Record.Notes.EstimatedTotalDays <= speedBar {
		total += weightSpeed
	}
	if criteria.PrioritizeSimplicity {
		tier := r.Record.Registration.DifficultyTier
		if tier == domain.DifficultyEasy || tier == domain.DifficultyModerate {
			total += weightSimplicity
		}
	}
	return total
}

func meanGrandTotal(results []Result) decimal.Decimal {
	if len(results) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, r := range results {
		sum = sum.Add(r.Breakdown.GrandTotal)
	}
	return sum.Div(decimal.NewFromInt(int64(len(results))))
}

func meanEstimatedDays(results []Result) int {
	if len(results) == 0 {
		return 0
	}
	sum := 0
	for _, r := range results {
		sum += r.Record.Notes.EstimatedTotalDays
	}
	return sum / len(results)
}
