// Package advisor orchestrates the engine's tools for the request-handling
// layer: it resolves jurisdictions, runs the pure evaluators, and records
// every invocation in the session journey ledger.
package advisor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"driveport/internal/advisor/metrics"
	"driveport/internal/domain"
	"driveport/internal/eligibility"
	"driveport/internal/journey"
	"driveport/internal/ranking"
	"driveport/internal/registry"
	"driveport/internal/tariff"
	dErrors "driveport/pkg/domain-errors"
	"driveport/pkg/platform/sentinel"
	pstrings "driveport/pkg/platform/strings"
)

// Service is the advisor. All computation runs against one registry snapshot
// per call, so a concurrent dataset swap never yields a half-updated view.
type Service struct {
	registry *registry.Registry
	ledger   *journey.Ledger
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithClock overrides the time source used for vehicle age computation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service over the registry and journey ledger.
func New(reg *registry.Registry, ledger *journey.Ledger, opts ...Option) *Service {
	s := &Service{
		registry: reg,
		ledger:   ledger,
		logger:   slog.Default(),
		tracer:   otel.Tracer("driveport/advisor"),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CheckEligibility decides admissibility of the vehicle into one destination.
func (s *Service) CheckEligibility(ctx context.Context, sessionID string, vehicle domain.VehicleDescriptor, code string) (domain.EligibilityVerdict, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.CheckEligibility")
	defer span.End()
	defer s.observe(domain.ToolEligibilityCheck, time.Now())

	if err := vehicle.Validate(); err != nil {
		return domain.EligibilityVerdict{}, s.fail(ctx, domain.ToolEligibilityCheck, err)
	}
	res, err := s.resolve(code)
	if err != nil {
		return domain.EligibilityVerdict{}, s.fail(ctx, domain.ToolEligibilityCheck, err)
	}

	verdict := s.evaluate(res, vehicle)

	if err := s.append(ctx, sessionID, domain.ToolEligibilityCheck,
		vehicleInput{Vehicle: vehicle, JurisdictionCode: code}, verdict); err != nil {
		return domain.EligibilityVerdict{}, s.fail(ctx, domain.ToolEligibilityCheck, err)
	}
	s.metrics.IncrementInvocation(string(domain.ToolEligibilityCheck), "ok")
	return verdict, nil
}

// EstimateCosts itemizes import costs for one destination.
func (s *Service) EstimateCosts(ctx context.Context, sessionID string, vehicle domain.VehicleDescriptor, code string) (domain.CostBreakdown, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.EstimateCosts")
	defer span.End()
	defer s.observe(domain.ToolCostEstimate, time.Now())

	res, err := s.resolve(code)
	if err != nil {
		return domain.CostBreakdown{}, s.fail(ctx, domain.ToolCostEstimate, err)
	}
	breakdown, err := tariff.ComputeCosts(res.Record, vehicle)
	if err != nil {
		return domain.CostBreakdown{}, s.fail(ctx, domain.ToolCostEstimate, err)
	}

	if err := s.append(ctx, sessionID, domain.ToolCostEstimate,
		vehicleInput{Vehicle: vehicle, JurisdictionCode: code}, breakdown); err != nil {
		return domain.CostBreakdown{}, s.fail(ctx, domain.ToolCostEstimate, err)
	}
	s.metrics.IncrementInvocation(string(domain.ToolCostEstimate), "ok")
	return breakdown, nil
}

// AssessDestination combines eligibility and costs for one destination.
func (s *Service) AssessDestination(ctx context.Context, sessionID string, vehicle domain.VehicleDescriptor, code string) (Assessment, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.AssessDestination")
	defer span.End()
	defer s.observe(domain.ToolDestinationAssessment, time.Now())

	if err := vehicle.Validate(); err != nil {
		return Assessment{}, s.fail(ctx, domain.ToolDestinationAssessment, err)
	}
	res, err := s.resolve(code)
	if err != nil {
		return Assessment{}, s.fail(ctx, domain.ToolDestinationAssessment, err)
	}

	breakdown, err := tariff.ComputeCosts(res.Record, vehicle)
	if err != nil {
		return Assessment{}, s.fail(ctx, domain.ToolDestinationAssessment, err)
	}
	assessment := Assessment{
		Eligibility: s.evaluate(res, vehicle),
		Costs:       breakdown,
	}

	if err := s.append(ctx, sessionID, domain.ToolDestinationAssessment,
		vehicleInput{Vehicle: vehicle, JurisdictionCode: code}, assessment); err != nil {
		return Assessment{}, s.fail(ctx, domain.ToolDestinationAssessment, err)
	}
	s.metrics.IncrementInvocation(string(domain.ToolDestinationAssessment), "ok")
	return assessment, nil
}

// CompareDestinations assesses the vehicle against every requested
// destination in parallel and ranks the eligible ones. Destinations the
// registry has no data for are reported in NoData rather than failing the
// whole comparison.
func (s *Service) CompareDestinations(ctx context.Context, sessionID string, vehicle domain.VehicleDescriptor, codes []string, criteria ranking.Criteria) (Comparison, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.CompareDestinations")
	defer span.End()
	defer s.observe(domain.ToolDestinationComparison, time.Now())

	if err := vehicle.Validate(); err != nil {
		return Comparison{}, s.fail(ctx, domain.ToolDestinationComparison, err)
	}
	codes = pstrings.DedupeAndTrimUpper(codes)
	if len(codes) == 0 {
		err := dErrors.New(dErrors.CodeInvalidInput, "at least one jurisdiction code is required")
		return Comparison{}, s.fail(ctx, domain.ToolDestinationComparison, err)
	}

	// One snapshot for the whole comparison: every destination is assessed
	// against the same dataset version.
	snap := s.registry.Current()
	now := s.now()

	type outcome struct {
		result ranking.Result
		noData bool
		code   string
	}
	outcomes := make([]outcome, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	for i, code := range codes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := snap.ResolveCode(code)
			if errors.Is(err, sentinel.ErrNotFound) {
				outcomes[i] = outcome{noData: true, code: domain.NormalizeCode(code)}
				return nil
			}
			if err != nil {
				return err
			}
			breakdown, err := tariff.ComputeCosts(res.Record, vehicle)
			if err != nil {
				return err
			}
			outcomes[i] = outcome{result: ranking.Result{
				Record: res.Record,
				Verdict: eligibility.Evaluate(res.Record, vehicle, eligibility.Options{
					Now:                 now,
					UsedCountryFallback: res.UsedCountryEligibility(),
				}),
				Breakdown: breakdown,
			}}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Comparison{}, s.fail(ctx, domain.ToolDestinationComparison, err)
	}

	results := make([]ranking.Result, 0, len(outcomes))
	var noData []string
	for _, o := range outcomes {
		if o.noData {
			noData = append(noData, o.code)
			continue
		}
		results = append(results, o.result)
	}

	ranked := ranking.Rank(results, criteria)
	comparison := Comparison{
		Ranked:     ranked.Ranked,
		Ineligible: ranked.Ineligible,
		NoData:     noData,
	}

	if err := s.append(ctx, sessionID, domain.ToolDestinationComparison,
		comparisonInput{Vehicle: vehicle, JurisdictionCodes: codes, Criteria: criteria}, comparison); err != nil {
		return Comparison{}, s.fail(ctx, domain.ToolDestinationComparison, err)
	}
	s.metrics.IncrementInvocation(string(domain.ToolDestinationComparison), "ok")
	return comparison, nil
}

// ShippingOutlook reports logistics expectations for one destination.
func (s *Service) ShippingOutlook(ctx context.Context, sessionID string, code string) (Outlook, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.ShippingOutlook")
	defer span.End()
	defer s.observe(domain.ToolShippingOutlook, time.Now())

	res, err := s.resolve(code)
	if err != nil {
		return Outlook{}, s.fail(ctx, domain.ToolShippingOutlook, err)
	}

	record := res.Record
	outlook := Outlook{
		JurisdictionCode:   record.Code,
		EstimatedTotalDays: record.Notes.EstimatedTotalDays,
		ProcessingDaysMin:  record.Registration.ProcessingDaysMin,
		ProcessingDaysMax:  record.Registration.ProcessingDaysMax,
		PeakDelayWindows:   record.Notes.PeakDelayWindows,
		Ports:              record.Notes.Ports,
		AgentSuggestions:   record.Notes.AgentSuggestions,
	}

	if err := s.append(ctx, sessionID, domain.ToolShippingOutlook,
		codeInput{JurisdictionCode: code}, outlook); err != nil {
		return Outlook{}, s.fail(ctx, domain.ToolShippingOutlook, err)
	}
	s.metrics.IncrementInvocation(string(domain.ToolShippingOutlook), "ok")
	return outlook, nil
}

// ChecklistFor assembles the compliance checklist for one destination.
func (s *Service) ChecklistFor(ctx context.Context, sessionID string, vehicle domain.VehicleDescriptor, code string) (Checklist, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.ChecklistFor")
	defer span.End()
	defer s.observe(domain.ToolComplianceChecklist, time.Now())

	if err := vehicle.Validate(); err != nil {
		return Checklist{}, s.fail(ctx, domain.ToolComplianceChecklist, err)
	}
	res, err := s.resolve(code)
	if err != nil {
		return Checklist{}, s.fail(ctx, domain.ToolComplianceChecklist, err)
	}

	record := res.Record
	checklist := Checklist{
		JurisdictionCode:              record.Code,
		AuthorityName:                 record.AuthorityName,
		ReferenceURL:                  record.ReferenceURL,
		Documents:                     record.Requirements.MandatoryDocuments,
		Inspections:                   record.Requirements.MandatoryInspections,
		SpecialConditions:             record.Requirements.SpecialConditions,
		RequiresConformityCertificate: record.Requirements.RequiresConformityCertificate,
		RequiresPhysicalInspection:    record.Registration.RequiresPhysicalInspection,
		ProcessingDaysMin:             record.Registration.ProcessingDaysMin,
		ProcessingDaysMax:             record.Registration.ProcessingDaysMax,
		DifficultyTier:                string(record.Registration.DifficultyTier),
		LastVerified:                  record.LastVerified,
	}

	if err := s.append(ctx, sessionID, domain.ToolComplianceChecklist,
		vehicleInput{Vehicle: vehicle, JurisdictionCode: code}, checklist); err != nil {
		return Checklist{}, s.fail(ctx, domain.ToolComplianceChecklist, err)
	}
	s.metrics.IncrementInvocation(string(domain.ToolComplianceChecklist), "ok")
	return checklist, nil
}

// Journey replays the session's recorded invocations in creation order.
func (s *Service) Journey(ctx context.Context, sessionID string) ([]domain.JourneyRecord, error) {
	ctx, span := s.tracer.Start(ctx, "advisor.Journey")
	defer span.End()
	return s.ledger.FetchAll(ctx, sessionID)
}

func (s *Service) evaluate(res registry.Resolution, vehicle domain.VehicleDescriptor) domain.EligibilityVerdict {
	return eligibility.Evaluate(res.Record, vehicle, eligibility.Options{
		Now:                 s.now(),
		UsedCountryFallback: res.UsedCountryEligibility(),
	})
}

// resolve maps the registry's sentinel onto the domain error taxonomy.
func (s *Service) resolve(code string) (registry.Resolution, error) {
	res, err := s.registry.Current().ResolveCode(code)
	if errors.Is(err, sentinel.ErrNotFound) {
		return registry.Resolution{}, dErrors.New(dErrors.CodeNotFound,
			"no regulation data for jurisdiction "+domain.NormalizeCode(code))
	}
	if err != nil {
		return registry.Resolution{}, dErrors.Wrap(err, dErrors.CodeInternal, "resolve jurisdiction")
	}
	return res, nil
}

func (s *Service) append(ctx context.Context, sessionID string, tool domain.ToolName, input, output any) error {
	if _, err := s.ledger.Record(ctx, sessionID, tool, input, output); err != nil {
		return err
	}
	s.metrics.IncrementJourneyAppend()
	return nil
}

func (s *Service) observe(tool domain.ToolName, start time.Time) {
	s.metrics.ObserveToolLatency(string(tool), time.Since(start))
}

// fail classifies the error for metrics, logs it once, and passes it through.
func (s *Service) fail(ctx context.Context, tool domain.ToolName, err error) error {
	outcome := "error"
	switch {
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		outcome = "not_found"
	case dErrors.HasCode(err, dErrors.CodeInvalidInput):
		outcome = "invalid_input"
	}
	s.metrics.IncrementInvocation(string(tool), outcome)
	s.logger.WarnContext(ctx, "advisor tool failed",
		slog.String("tool", string(tool)),
		slog.String("outcome", outcome),
		slog.String("error", err.Error()),
	)
	return err
}
