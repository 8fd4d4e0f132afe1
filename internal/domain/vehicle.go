package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dErrors "driveport/pkg/domain-errors"
)

// VehicleCategory classifies a vehicle for duty and eligibility purposes.
type VehicleCategory string

const (
	CategoryPassenger  VehicleCategory = "passenger"
	CategoryCommercial VehicleCategory = "commercial"
	CategoryMotorcycle VehicleCategory = "motorcycle"
	CategoryClassic    VehicleCategory = "classic"
)

// KnownCategories lists every category the engine understands, in display order.
var KnownCategories = []VehicleCategory{
	CategoryPassenger,
	CategoryCommercial,
	CategoryMotorcycle,
	CategoryClassic,
}

func (c VehicleCategory) Valid() bool {
	for _, known := range KnownCategories {
		if c == known {
			return true
		}
	}
	return false
}

// EngineAttributes are optional descriptor fields. Some jurisdictions key
// surcharges or inspections on displacement or emissions; when the caller
// omits them the evaluator degrades to a medium-confidence verdict instead
// of failing.
type EngineAttributes struct {
	DisplacementCC int    `json:"displacement_cc"`
	Aspiration     string `json:"aspiration,omitempty"`
	EmissionsCO2   int    `json:"emissions_co2_gkm,omitempty"`
}

// VehicleDescriptor is the caller-supplied description of the vehicle being
// imported. DeclaredValue is the customs value in Currency; every cost
// computation derives from it.
type VehicleDescriptor struct {
	Make          string            `json:"make"`
	Model         string            `json:"model"`
	ModelYear     int               `json:"model_year"`
	DeclaredValue decimal.Decimal   `json:"declared_value"`
	Currency      string            `json:"currency"`
	Category      VehicleCategory   `json:"category"`
	OriginCountry string            `json:"origin_country"`
	Engine        *EngineAttributes `json:"engine,omitempty"`
}

// AgeYears computes the regulatory vehicle age used by exemption and
// minimum-age rules. Jurisdictions count whole calendar years from the model
// year, not months since manufacture.
func (v VehicleDescriptor) AgeYears(now time.Time) int {
	return now.Year() - v.ModelYear
}

// Validate rejects descriptors that cannot produce a meaningful computation.
// A non-positive declared value must fail fast rather than silently yield
// zero costs.
func (v VehicleDescriptor) Validate() error {
	if strings.TrimSpace(v.Make) == "" || strings.TrimSpace(v.Model) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "vehicle make and model are required")
	}
	if v.ModelYear < 1900 {
		return dErrors.New(dErrors.CodeInvalidInput, "vehicle model year is implausible")
	}
	if !v.DeclaredValue.IsPositive() {
		return dErrors.New(dErrors.CodeInvalidInput, "declared value must be positive")
	}
	if len(v.Currency) != 3 {
		return dErrors.New(dErrors.CodeInvalidInput, "currency must be a 3-letter ISO code")
	}
	if !v.Category.Valid() {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown vehicle category")
	}
	return nil
}
