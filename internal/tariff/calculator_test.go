package tariff

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"driveport/internal/domain"
	dErrors "driveport/pkg/domain-errors"
)

type CalculatorSuite struct {
	suite.Suite
}

func TestCalculatorSuite(t *testing.T) {
	suite.Run(t, new(CalculatorSuite))
}

func (s *CalculatorSuite) vehicle(value int64) domain.VehicleDescriptor {
	return domain.VehicleDescriptor{
		Make:          "Nissan",
		Model:         "Skyline GT-R",
		ModelYear:     1995,
		DeclaredValue: decimal.NewFromInt(value),
		Currency:      "USD",
		Category:      domain.CategoryPassenger,
		OriginCountry: "JP",
	}
}

func (s *CalculatorSuite) record(schedule ...domain.FeeComponent) domain.JurisdictionRecord {
	return domain.JurisdictionRecord{
		Code:        "XX",
		Currency:    "USD",
		FeeSchedule: schedule,
	}
}

func rate(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func (s *CalculatorSuite) TestDutyInclusiveVATChain() {
	record := s.record(
		domain.FeeComponent{Name: "documentation_fee", Kind: domain.FeeFlatAmount, Amount: decimal.NewFromInt(50)},
		domain.FeeComponent{Name: "import_duty", Kind: domain.FeePercentOfValue, Rate: rate("0.05")},
		domain.FeeComponent{
			Name:      "vat",
			Kind:      domain.FeePercentOfCumulative,
			Rate:      rate("0.10"),
			DependsOn: []string{domain.BaseDeclaredValue, "import_duty"},
		},
	)

	breakdown, err := ComputeCosts(record, s.vehicle(20000))
	s.Require().NoError(err)

	s.Require().Len(breakdown.LineItems, 3)
	s.True(breakdown.LineItems[0].Amount.Equal(decimal.NewFromInt(50)))
	s.True(breakdown.LineItems[1].Amount.Equal(decimal.NewFromInt(1000)))
	s.True(breakdown.LineItems[2].Amount.Equal(decimal.NewFromInt(2100)), "vat must tax value plus duty")
	s.True(breakdown.LineItems[2].RunningTotal.Equal(decimal.NewFromInt(3150)))
	s.True(breakdown.GrandTotal.Equal(decimal.NewFromInt(3150)))
}

func (s *CalculatorSuite) TestDeterminism() {
	record := s.record(
		domain.FeeComponent{Name: "import_duty", Kind: domain.FeePercentOfValue, Rate: rate("0.061")},
		domain.FeeComponent{
			Name:      "gst",
			Kind:      domain.FeePercentOfCumulative,
			Rate:      rate("0.05"),
			DependsOn: []string{domain.BaseDeclaredValue, "import_duty"},
		},
	)
	vehicle := s.vehicle(34999)

	first, err := ComputeCosts(record, vehicle)
	s.Require().NoError(err)
	second, err := ComputeCosts(record, vehicle)
	s.Require().NoError(err)

	s.Equal(first, second)
}

func (s *CalculatorSuite) TestIndependentComponentsReorder() {
	a := domain.FeeComponent{Name: "inspection_fee", Kind: domain.FeeFlatAmount, Amount: decimal.NewFromInt(240)}
	b := domain.FeeComponent{Name: "import_duty", Kind: domain.FeePercentOfValue, Rate: rate("0.05")}

	forward, err := ComputeCosts(s.record(a, b), s.vehicle(20000))
	s.Require().NoError(err)
	reversed, err := ComputeCosts(s.record(b, a), s.vehicle(20000))
	s.Require().NoError(err)

	s.True(forward.GrandTotal.Equal(reversed.GrandTotal))
}

func (s *CalculatorSuite) TestCategoryFilterSkipsComponent() {
	record := s.record(
		domain.FeeComponent{
			Name:      "import_duty",
			Kind:      domain.FeePercentOfValue,
			Rate:      rate("0.025"),
			AppliesTo: []domain.VehicleCategory{domain.CategoryPassenger},
		},
		domain.FeeComponent{
			Name:      "light_truck_duty",
			Kind:      domain.FeePercentOfValue,
			Rate:      rate("0.25"),
			AppliesTo: []domain.VehicleCategory{domain.CategoryCommercial},
		},
	)

	vehicle := s.vehicle(10000)
	vehicle.Category = domain.CategoryCommercial

	breakdown, err := ComputeCosts(record, vehicle)
	s.Require().NoError(err)

	s.Require().Len(breakdown.LineItems, 1, "filtered components are skipped, not zeroed")
	s.Equal("light_truck_duty", breakdown.LineItems[0].Name)
	s.True(breakdown.GrandTotal.Equal(decimal.NewFromInt(2500)))
}

func (s *CalculatorSuite) TestSkippedDependencyContributesNothing() {
	record := s.record(
		domain.FeeComponent{
			Name:      "light_truck_duty",
			Kind:      domain.FeePercentOfValue,
			Rate:      rate("0.25"),
			AppliesTo: []domain.VehicleCategory{domain.CategoryCommercial},
		},
		domain.FeeComponent{
			Name:      "vat",
			Kind:      domain.FeePercentOfCumulative,
			Rate:      rate("0.10"),
			DependsOn: []string{domain.BaseDeclaredValue, "light_truck_duty"},
		},
	)

	breakdown, err := ComputeCosts(record, s.vehicle(20000))
	s.Require().NoError(err)

	s.Require().Len(breakdown.LineItems, 1)
	s.True(breakdown.GrandTotal.Equal(decimal.NewFromInt(2000)), "vat base excludes the skipped duty")
}

func (s *CalculatorSuite) TestTieredThresholdMarginalRate() {
	record := s.record(domain.FeeComponent{
		Name:     "luxury_car_tax",
		Kind:     domain.FeeTieredThreshold,
		TierBase: domain.TierBaseDeclared,
		Tiers: []domain.FeeTier{
			{Threshold: decimal.NewFromInt(89332), Rate: rate("0.33")},
		},
	})

	breakdown, err := ComputeCosts(record, s.vehicle(100000))
	s.Require().NoError(err)

	// Only the portion above the threshold is taxed.
	want := decimal.NewFromInt(100000 - 89332).Mul(rate("0.33"))
	s.True(breakdown.GrandTotal.Equal(want.Round(2)))
}

func (s *CalculatorSuite) TestTieredThresholdBelowThresholdOwesNothing() {
	record := s.record(domain.FeeComponent{
		Name:     "luxury_car_tax",
		Kind:     domain.FeeTieredThreshold,
		TierBase: domain.TierBaseDeclared,
		Tiers: []domain.FeeTier{
			{Threshold: decimal.NewFromInt(89332), Rate: rate("0.33")},
		},
	})

	breakdown, err := ComputeCosts(record, s.vehicle(50000))
	s.Require().NoError(err)
	s.True(breakdown.GrandTotal.IsZero())
}

func (s *CalculatorSuite) TestZeroDecimalCurrencyRounding() {
	record := s.record(domain.FeeComponent{
		Name: "consumption_tax",
		Kind: domain.FeePercentOfCumulative,
		Rate: rate("0.10"),
		DependsOn: []string{
			domain.BaseDeclaredValue,
		},
	})
	record.Currency = "JPY"

	vehicle := s.vehicle(0)
	vehicle.Currency = "JPY"
	vehicle.DeclaredValue = decimal.RequireFromString("1234567")

	breakdown, err := ComputeCosts(record, vehicle)
	s.Require().NoError(err)

	s.True(breakdown.GrandTotal.Equal(decimal.NewFromInt(123457)), "JPY rounds to whole units")
}

func (s *CalculatorSuite) TestRoundingDriftBounded() {
	record := s.record(
		domain.FeeComponent{Name: "import_duty", Kind: domain.FeePercentOfValue, Rate: rate("0.061")},
		domain.FeeComponent{Name: "excise", Kind: domain.FeePercentOfValue, Rate: rate("0.003464")},
		domain.FeeComponent{
			Name:      "gst",
			Kind:      domain.FeePercentOfCumulative,
			Rate:      rate("0.05"),
			DependsOn: []string{domain.BaseDeclaredValue, "import_duty", "excise"},
		},
	)

	vehicle := s.vehicle(0)
	vehicle.DeclaredValue = decimal.RequireFromString("19999.99")

	breakdown, err := ComputeCosts(record, vehicle)
	s.Require().NoError(err)

	summed := decimal.Zero
	for _, item := range breakdown.LineItems {
		summed = summed.Add(item.Amount)
	}
	drift := summed.Sub(breakdown.GrandTotal).Abs()
	s.True(drift.LessThanOrEqual(decimal.RequireFromString("0.01")),
		"pre-rounded line item sum must stay within one minor unit of the grand total, drift=%s", drift)
}

func (s *CalculatorSuite) TestNonPositiveValueRejected() {
	record := s.record(domain.FeeComponent{Name: "fee", Kind: domain.FeeFlatAmount, Amount: decimal.NewFromInt(50)})

	vehicle := s.vehicle(0)
	_, err := ComputeCosts(record, vehicle)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	vehicle.DeclaredValue = decimal.NewFromInt(-100)
	_, err = ComputeCosts(record, vehicle)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *CalculatorSuite) TestEmptyScheduleYieldsZeroTotal() {
	breakdown, err := ComputeCosts(s.record(), s.vehicle(20000))
	s.Require().NoError(err)
	s.Empty(breakdown.LineItems)
	s.True(breakdown.GrandTotal.IsZero())
}
