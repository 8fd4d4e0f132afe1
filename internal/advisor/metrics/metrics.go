package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the advisor module. All methods are
// nil-safe so wiring metrics stays optional.
type Metrics struct {
	// Tool invocations by tool name and outcome
	ToolInvocations *prometheus.CounterVec

	// Per-tool computation latency
	ToolLatency *prometheus.HistogramVec

	// Journey ledger appends
	JourneyAppends prometheus.Counter
}

// New creates a Metrics instance with all advisor metrics registered.
func New() *Metrics {
	return &Metrics{
		ToolInvocations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "driveport_advisor_tool_invocations_total",
			Help: "Total advisor tool invocations by tool and outcome",
		}, []string{"tool", "outcome"}), // outcome: "ok", "not_found", "invalid_input", "error"

		ToolLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "driveport_advisor_tool_duration_seconds",
			Help:    "Duration of advisor tool computations",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"tool"}),

		JourneyAppends: promauto.NewCounter(prometheus.CounterOpts{
			Name: "driveport_advisor_journey_appends_total",
			Help: "Total journey records appended by the advisor",
		}),
	}
}

// IncrementInvocation records one tool invocation outcome.
func (m *Metrics) IncrementInvocation(tool, outcome string) {
	if m != nil {
		m.ToolInvocations.WithLabelValues(tool, outcome).Inc()
	}
}

// ObserveToolLatency records the duration of one tool computation.
func (m *Metrics) ObserveToolLatency(tool string, d time.Duration) {
	if m != nil {
		m.ToolLatency.WithLabelValues(tool).Observe(d.Seconds())
	}
}

// IncrementJourneyAppend records one ledger append.
func (m *Metrics) IncrementJourneyAppend() {
	if m != nil {
		m.JourneyAppends.Inc()
	}
}
