package registry

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"

	"driveport/internal/domain"
	"driveport/internal/registry/dataset"
	dErrors "driveport/pkg/domain-errors"
)

// datasetFile is the on-disk shape of one authored data file: a flat list of
// records, typically one country plus its sub-regions.
type datasetFile struct {
	Records []domain.JurisdictionRecord `json:"records"`
}

// LoadEmbedded builds a snapshot from the data files compiled into the
// binary. This is the default registry source; operators can load a newer
// dataset from disk with LoadFS and swap it in.
func LoadEmbedded() (*Snapshot, error) {
	return LoadFS(dataset.Files, dataset.Version)
}

// LoadFS builds a snapshot from every *.json file in the given filesystem.
// All validation happens here, eagerly: a dataset that fails any integrity
// check never becomes a publishable snapshot.
func LoadFS(fsys fs.FS, version string) (*Snapshot, error) {
	paths, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list dataset files")
	}
	sort.Strings(paths)

	var records []domain.JurisdictionRecord
	for _, path := range paths {
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("read dataset file %s", path))
		}
		var file datasetFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeDataIntegrity, fmt.Sprintf("parse dataset file %s", path))
		}
		records = append(records, file.Records...)
	}

	return BuildSnapshot(version, records)
}

// BuildSnapshot validates authored records and assembles an immutable
// snapshot. Sub-region records that leave eligibility sections empty inherit
// them from their parent country record; the inheritance is remembered so
// verdicts can report reduced confidence.
func BuildSnapshot(version string, records []domain.JurisdictionRecord) (*Snapshot, error) {
	byCode := make(map[string]domain.JurisdictionRecord, len(records))
	for _, rec := range records {
		code := domain.NormalizeCode(rec.Code)
		if code == "" {
			return nil, dErrors.New(dErrors.CodeDataIntegrity, "record with empty jurisdiction code")
		}
		if _, dup := byCode[code]; dup {
			return nil, dErrors.New(dErrors.CodeDataIntegrity, fmt.Sprintf("duplicate jurisdiction code %s", code))
		}
		rec.Code = code
		byCode[code] = rec
	}

	for code, rec := range byCode {
		if err := validateRecord(rec); err != nil {
			return nil, err
		}
		if rec.IsSubRegion() {
			if _, ok := byCode[rec.CountryCode()]; !ok {
				return nil, dErrors.New(dErrors.CodeDataIntegrity,
					fmt.Sprintf("sub-region %s has no parent country record %s", code, rec.CountryCode()))
			}
		}
	}

	inherited := make(map[string]bool)
	for code, rec := range byCode {
		if !rec.IsSubRegion() {
			continue
		}
		parent := byCode[rec.CountryCode()]
		merged, usedParent := mergeWithParent(rec, parent)
		byCode[code] = merged
		if usedParent {
			inherited[code] = true
		}
	}

	return &Snapshot{
		version:              version,
		records:              byCode,
		inheritedEligibility: inherited,
		codes:                sortedCodes(byCode),
	}, nil
}

// mergeWithParent fills a sub-region record's empty sections from its parent.
// Sub-regions are additive refinements: they may override fees, difficulty,
// or notes, but eligibility thresholds inherited from the country record stay
// authoritative unless the sub-region overrides them explicitly.
func mergeWithParent(sub, parent domain.JurisdictionRecord) (domain.JurisdictionRecord, bool) {
	usedParentEligibility := false

	if len(sub.Requirements.MinimumAgeRules) == 0 {
		sub.Requirements.MinimumAgeRules = parent.Requirements.MinimumAgeRules
		usedParentEligibility = true
	}
	if len(sub.Requirements.ExemptionRules) == 0 {
		sub.Requirements.ExemptionRules = parent.Requirements.ExemptionRules
		usedParentEligibility = true
	}
	if len(sub.Requirements.ProhibitedCategories) == 0 && len(parent.Requirements.ProhibitedCategories) > 0 {
		sub.Requirements.ProhibitedCategories = parent.Requirements.ProhibitedCategories
		usedParentEligibility = true
	}
	if len(sub.Requirements.MandatoryInspections) == 0 {
		sub.Requirements.MandatoryInspections = parent.Requirements.MandatoryInspections
	}
	if len(sub.Requirements.MandatoryDocuments) == 0 {
		sub.Requirements.MandatoryDocuments = parent.Requirements.MandatoryDocuments
	}
	if len(sub.FeeSchedule) == 0 {
		sub.FeeSchedule = parent.FeeSchedule
	}
	if sub.Currency == "" {
		sub.Currency = parent.Currency
	}
	if sub.Strictness == "" {
		sub.Strictness = parent.Strictness
	}
	if sub.Notes.EstimatedTotalDays == 0 {
		sub.Notes = parent.Notes
	}

	return sub, usedParentEligibility
}

func validateRecord(rec domain.JurisdictionRecord) error {
	fail := func(format string, args ...any) error {
		return dErrors.New(dErrors.CodeDataIntegrity,
			fmt.Sprintf("jurisdiction %s: ", rec.Code)+fmt.Sprintf(format, args...))
	}

	if !rec.IsSubRegion() && rec.Currency == "" {
		return fail("country record missing currency")
	}
	if rec.Currency != "" && len(rec.Currency) != 3 {
		return fail("currency %q is not a 3-letter code", rec.Currency)
	}
	reg := rec.Registration
	if reg.ProcessingDaysMin < 0 || reg.ProcessingDaysMax < reg.ProcessingDaysMin {
		return fail("invalid processing day range %d..%d", reg.ProcessingDaysMin, reg.ProcessingDaysMax)
	}

	for _, rule := range rec.Requirements.MinimumAgeRules {
		if rule.MinAgeYears < 0 {
			return fail("negative minimum age")
		}
		if rule.Category != "" && !rule.Category.Valid() {
			return fail("minimum age rule references unknown category %q", rule.Category)
		}
	}
	exemptionNames := make(map[string]bool)
	for _, rule := range rec.Requirements.ExemptionRules {
		if rule.Name == "" {
			return fail("exemption rule with empty name")
		}
		if exemptionNames[rule.Name] {
			return fail("duplicate exemption rule %q", rule.Name)
		}
		exemptionNames[rule.Name] = true
		if rule.MinAgeYears < 0 {
			return fail("exemption %q has negative minimum age", rule.Name)
		}
		if rule.Category != "" && !rule.Category.Valid() {
			return fail("exemption %q references unknown category %q", rule.Name, rule.Category)
		}
	}

	return validateFeeSchedule(rec.Code, rec.FeeSchedule)
}

// validateFeeSchedule enforces the ordering and shape invariants of a fee
// pipeline. A cumulative component may only depend on the declared value or
// on components declared before it; forward references are an authoring
// error and must be rejected here, never surfaced at request time.
func validateFeeSchedule(code string, schedule []domain.FeeComponent) error {
	fail := func(format string, args ...any) error {
		return dErrors.New(dErrors.CodeDataIntegrity,
			fmt.Sprintf("jurisdiction %s fee schedule: ", code)+fmt.Sprintf(format, args...))
	}

	seen := make(map[string]bool, len(schedule))
	tieredCount := 0
	for _, comp := range schedule {
		if comp.Name == "" {
			return fail("component with empty name")
		}
		if seen[comp.Name] {
			return fail("duplicate component %q", comp.Name)
		}

		switch comp.Kind {
		case domain.FeeFlatAmount:
			if comp.Amount.IsNegative() {
				return fail("component %q has negative amount", comp.Name)
			}
		case domain.FeePercentOfValue:
			if comp.Rate.IsNegative() {
				return fail("component %q has negative rate", comp.Name)
			}
		case domain.FeePercentOfCumulative:
			if comp.Rate.IsNegative() {
				return fail("component %q has negative rate", comp.Name)
			}
			if len(comp.DependsOn) == 0 {
				return fail("cumulative component %q declares no base components", comp.Name)
			}
			for _, dep := range comp.DependsOn {
				if dep == domain.BaseDeclaredValue {
					continue
				}
				if !seen[dep] {
					return fail("component %q depends on %q which is not declared before it", comp.Name, dep)
				}
			}
		case domain.FeeTieredThreshold:
			tieredCount++
			if tieredCount > 1 {
				return fail("more than one tiered component; tiered rules must not stack")
			}
			if len(comp.Tiers) == 0 {
				return fail("tiered component %q has no tiers", comp.Name)
			}
			prev := comp.Tiers[0].Threshold
			for i, tier := range comp.Tiers {
				if tier.Threshold.IsNegative() || tier.Rate.IsNegative() {
					return fail("tiered component %q has negative tier values", comp.Name)
				}
				if i > 0 && tier.Threshold.LessThanOrEqual(prev) {
					return fail("tiered component %q thresholds are not strictly ascending", comp.Name)
				}
				prev = tier.Threshold
			}
			switch comp.TierBase {
			case "", domain.TierBaseDeclared, domain.TierBaseCumulative:
			default:
				return fail("tiered component %q has unknown tier base %q", comp.Name, comp.TierBase)
			}
		default:
			return fail("component %q has unknown kind %q", comp.Name, comp.Kind)
		}

		for _, cat := range comp.AppliesTo {
			if !cat.Valid() {
				return fail("component %q filters on unknown category %q", comp.Name, cat)
			}
		}

		seen[comp.Name] = true
	}
	return nil
}
