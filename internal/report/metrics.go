package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mrz1836/qgate/internal/constants"
	qgerrors "github.com/mrz1836/qgate/internal/errors"
	"github.com/mrz1836/qgate/internal/stage"
)

// Metrics collects per-run measurements and writes them in the Prometheus
// text exposition format, for node_exporter's textfile collector or CI
// dashboards.
type Metrics struct {
	registry *prometheus.Registry

	StageDuration *prometheus.GaugeVec
	StagePassed   *prometheus.GaugeVec
	Violations    *prometheus.CounterVec
	RunFailed     prometheus.Gauge
}

// Violation kinds recorded by the Violations counter.
const (
	ViolationDocstring  = "docstring"
	ViolationRedundancy = "redundancy"
	ViolationDuration   = "duration"
	ViolationJUnitParse = "junit_parse"
)

// NewMetrics creates a Metrics instance backed by its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		StageDuration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "qgate_stage_duration_seconds",
				Help: "Wall-clock duration of each stage",
			},
			[]string{"gate", "stage"},
		),
		StagePassed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "qgate_stage_passed",
				Help: "1 if the stage exited with code 0, else 0",
			},
			[]string{"gate", "stage"},
		),
		Violations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qgate_violations_total",
				Help: "Number of violations found, by kind",
			},
			[]string{"kind"},
		),
		RunFailed: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "qgate_run_failed",
				Help: "1 once any stage or check of the run has failed",
			},
		),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveStage records the duration and outcome of one stage.
func (m *Metrics) ObserveStage(gate string, r stage.Result) {
	m.StageDuration.WithLabelValues(gate, r.Name).Set(r.ElapsedSeconds)
	passed := 0.0
	if r.Passed() {
		passed = 1
	}
	m.StagePassed.WithLabelValues(gate, r.Name).Set(passed)
}

// AddViolations adds n violations of kind. Zero is recorded so every kind
// appears in the output of a gate that ran.
func (m *Metrics) AddViolations(kind string, n int) {
	m.Violations.WithLabelValues(kind).Add(float64(n))
}

// SetFailed mirrors the run's failed flag.
func (m *Metrics) SetFailed(failed bool) {
	if failed {
		m.RunFailed.Set(1)
		return
	}
	m.RunFailed.Set(0)
}

// WriteMetrics writes m to the metrics artifact, replacing the previous file.
func (s *Store) WriteMetrics(m *Metrics) error {
	if err := prometheus.WriteToTextfile(s.Path(constants.ReportMetrics), m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", qgerrors.ErrReportWrite, constants.ReportMetrics, err)
	}
	return nil
}
