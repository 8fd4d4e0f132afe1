package registry

import (
	"sort"
	"sync/atomic"

	"driveport/internal/domain"
	"driveport/pkg/platform/sentinel"
)

// Snapshot is an immutable, validated set of jurisdiction records. Snapshots
// are built once by the loader and never mutated, so request-time reads need
// no locking.
type Snapshot struct {
	version string
	records map[string]domain.JurisdictionRecord
	// inheritedEligibility marks sub-region codes whose eligibility sections
	// (age rules, exemptions, prohibitions) were filled in from the parent
	// country record at build time. Verdicts computed against them carry
	// reduced confidence.
	inheritedEligibility map[string]bool
	codes                []string // sorted for deterministic iteration
}

// Version identifies the authored dataset the snapshot was built from.
func (s *Snapshot) Version() string {
	return s.version
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// Lookup returns the record for an exact jurisdiction code. Absence is a
// normal outcome and is reported as sentinel.ErrNotFound, never a panic.
func (s *Snapshot) Lookup(code string) (domain.JurisdictionRecord, error) {
	rec, ok := s.records[domain.NormalizeCode(code)]
	if !ok {
		return domain.JurisdictionRecord{}, sentinel.ErrNotFound
	}
	return rec, nil
}

// Resolution is the result of a fallback-aware lookup. FellBackToCountry is
// set when the requested sub-region had no record of its own;
// InheritedEligibility when the sub-region record exists but its eligibility
// sections came from the parent. Either way the evaluator should degrade
// verdict confidence.
type Resolution struct {
	Record               domain.JurisdictionRecord
	FellBackToCountry    bool
	InheritedEligibility bool
}

// UsedCountryEligibility reports whether any eligibility check against this
// resolution relies on country-level rather than sub-region data.
func (r Resolution) UsedCountryEligibility() bool {
	return r.FellBackToCountry || r.InheritedEligibility
}

// ResolveWithFallback returns the sub-region record if present, else the
// country record, else sentinel.ErrNotFound. An empty subRegionCode resolves
// the country directly.
func (s *Snapshot) ResolveWithFallback(countryCode, subRegionCode string) (Resolution, error) {
	country := domain.NormalizeCode(countryCode)
	sub := domain.NormalizeCode(subRegionCode)

	if sub != "" {
		code := country + "-" + sub
		if rec, ok := s.records[code]; ok {
			return Resolution{
				Record:               rec,
				InheritedEligibility: s.inheritedEligibility[code],
			}, nil
		}
		if rec, ok := s.records[country]; ok {
			return Resolution{Record: rec, FellBackToCountry: true}, nil
		}
		return Resolution{}, sentinel.ErrNotFound
	}

	rec, ok := s.records[country]
	if !ok {
		return Resolution{}, sentinel.ErrNotFound
	}
	return Resolution{Record: rec}, nil
}

// ResolveCode resolves a combined code ("US" or "US-CA") with fallback.
func (s *Snapshot) ResolveCode(code string) (Resolution, error) {
	normalized := domain.NormalizeCode(code)
	for i := 0; i < len(normalized); i++ {
		if normalized[i] == '-' {
			return s.ResolveWithFallback(normalized[:i], normalized[i+1:])
		}
	}
	return s.ResolveWithFallback(normalized, "")
}

// ListAll returns records matching the filter in jurisdiction-code order.
// A nil filter matches everything.
func (s *Snapshot) ListAll(filter func(domain.JurisdictionRecord) bool) []domain.JurisdictionRecord {
	out := make([]domain.JurisdictionRecord, 0, len(s.codes))
	for _, code := range s.codes {
		rec := s.records[code]
		if filter == nil || filter(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Registry publishes snapshots to readers. Updates are rare and out-of-band:
// a new snapshot is fully built and validated, then swapped in atomically so
// an in-flight computation never observes a half-updated record.
type Registry struct {
	current atomic.Pointer[Snapshot]
}

// New creates a registry publishing the given snapshot.
func New(snap *Snapshot) *Registry {
	r := &Registry{}
	r.current.Store(snap)
	return r
}

// Current returns the published snapshot.
func (r *Registry) Current() *Snapshot {
	return r.current.Load()
}

// Swap publishes a new snapshot. Readers holding the old snapshot keep a
// consistent view until their computation completes.
func (r *Registry) Swap(snap *Snapshot) {
	r.current.Store(snap)
}

func sortedCodes(records map[string]domain.JurisdictionRecord) []string {
	codes := make([]string, 0, len(records))
	for code := range records {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
