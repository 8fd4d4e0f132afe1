package ranking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"driveport/internal/domain"
)

type RankerSuite struct {
	suite.Suite
}

func TestRankerSuite(t *testing.T) {
	suite.Run(t, new(RankerSuite))
}

func (s *RankerSuite) result(code string, eligible bool, grandTotal int64, days int, tier domain.DifficultyTier) Result {
	return Result{
		Record: domain.JurisdictionRecord{
			Code:         code,
			Currency:     "USD",
			Registration: domain.Registration{DifficultyTier: tier},
			Notes:        domain.RegionalNotes{EstimatedTotalDays: days},
		},
		Verdict: domain.EligibilityVerdict{
			JurisdictionCode: code,
			Eligible:         eligible,
			AppliedRule:      domain.RuleMinimumAge,
		},
		Breakdown: domain.CostBreakdown{
			JurisdictionCode: code,
			Currency:         "USD",
			GrandTotal:       decimal.NewFromInt(grandTotal),
		},
	}
}

func codes(ranked []RankedResult) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Record.Code)
	}
	return out
}

func (s *RankerSuite) TestCheapAndSimpleWins() {
	results := []Result{
		s.result("US", true, 5000, 45, domain.DifficultyComplex),
		s.result("NZ", true, 1500, 18, domain.DifficultyEasy),
		s.result("DE", true, 6000, 21, domain.DifficultyComplex),
	}

	ranking := Rank(results, Criteria{PrioritizeCost: true, PrioritizeSimplicity: true})

	s.Equal([]string{"NZ", "US", "DE"}, codes(ranking.Ranked))
	s.Empty(ranking.Ineligible)
	s.Equal(weightCost+weightSimplicity, ranking.Ranked[0].Score)
}

func (s *RankerSuite) TestIneligibleKeptInSecondaryList() {
	prohibited := s.result("AE", false, 0, 14, domain.DifficultyEasy)
	prohibited.Verdict.AppliedRule = domain.RuleCategoryProhibited
	prohibited.Verdict.UnmetRequirements = []string{`category "commercial" is not permitted for import`}

	results := []Result{
		s.result("CA", true, 2500, 30, domain.DifficultyModerate),
		prohibited,
	}

	ranking := Rank(results, Criteria{PrioritizeCost: true})

	s.Equal([]string{"CA"}, codes(ranking.Ranked))
	s.Require().Len(ranking.Ineligible, 1)
	s.Equal("AE", ranking.Ineligible[0].JurisdictionCode)
	s.NotEmpty(ranking.Ineligible[0].Verdict.UnmetRequirements, "callers must see why, not just an omission")
}

func (s *RankerSuite) TestTieBrokenByGrandTotal() {
	// Both satisfy simplicity; the cheaper one must come first.
	results := []Result{
		s.result("UK", true, 4000, 28, domain.DifficultyModerate),
		s.result("CA", true, 2500, 30, domain.DifficultyModerate),
	}

	ranking := Rank(results, Criteria{PrioritizeSimplicity: true})
	s.Equal([]string{"CA", "UK"}, codes(ranking.Ranked))
}

func (s *RankerSuite) TestTieBrokenByEstimatedDaysThenCode() {
	results := []Result{
		s.result("DE", true, 3000, 21, domain.DifficultyComplex),
		s.result("JP", true, 3000, 30, domain.DifficultyComplex),
		s.result("AU", true, 3000, 21, domain.DifficultyComplex),
	}

	ranking := Rank(results, Criteria{})

	s.Equal([]string{"AU", "DE", "JP"}, codes(ranking.Ranked))
}

func (s *RankerSuite) TestDeterminism() {
	results := []Result{
		s.result("US", true, 5000, 45, domain.DifficultyComplex),
		s.result("CA", true, 2500, 30, domain.DifficultyModerate),
		s.result("NZ", true, 1500, 18, domain.DifficultyEasy),
		s.result("UK", false, 0, 28, domain.DifficultyModerate),
	}
	criteria := Criteria{PrioritizeCost: true, PrioritizeSpeed: true, PrioritizeSimplicity: true}

	first := Rank(results, criteria)
	for i := 0; i < 10; i++ {
		s.Equal(first, Rank(results, criteria))
	}
}

func (s *RankerSuite) TestNoCriteriaRanksOnTieBreaksAlone() {
	results := []Result{
		s.result("US", true, 5000, 45, domain.DifficultyComplex),
		s.result("NZ", true, 1500, 18, domain.DifficultyEasy),
	}

	ranking := Rank(results, Criteria{})
	s.Equal([]string{"NZ", "US"}, codes(ranking.Ranked))
	for _, r := range ranking.Ranked {
		s.Zero(r.Score)
	}
}

func (s *RankerSuite) TestEmptyInput() {
	ranking := Rank(nil, Criteria{PrioritizeCost: true})
	s.Empty(ranking.Ranked)
	s.Empty(ranking.Ineligible)
}
