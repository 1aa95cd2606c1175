// Package metrics exposes validation counters in the Prometheus text format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Threatwrix/drive-maturity-model/internal/runner"
	"github.com/Threatwrix/drive-maturity-model/internal/validate"
)

const namespace = "drive_checks"

// Metrics holds the counters of a single validation run.
type Metrics struct {
	registry *prometheus.Registry

	RecordsValidated *prometheus.CounterVec
	Diagnostics      *prometheus.CounterVec
	LastRunFailed    prometheus.Gauge
}

// New creates the counters on a private registry so that runs never share
// state through the default one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RecordsValidated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_validated_total",
			Help:      "Check records validated, by outcome",
		}, []string{"outcome"}),
		Diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Diagnostics reported, by severity",
		}, []string{"severity"}),
		LastRunFailed: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_failed",
			Help:      "1 if the last validation run had a failing record",
		}),
	}
}

// Observe records one validated record.
func (m *Metrics) Observe(r *validate.Result) {
	m.RecordsValidated.WithLabelValues(outcomeLabel(r.Status())).Inc()
	m.Diagnostics.WithLabelValues("error").Add(float64(len(r.Errors)))
	m.Diagnostics.WithLabelValues("warning").Add(float64(len(r.Warnings)))
	m.Diagnostics.WithLabelValues("info").Add(float64(len(r.Info)))
}

// ObserveRun records every outcome of a run and its overall verdict.
func (m *Metrics) ObserveRun(outcomes []runner.Outcome, t runner.Tally) {
	for _, o := range outcomes {
		m.Observe(o.Result)
	}
	if t.OK() {
		m.LastRunFailed.Set(0)
	} else {
		m.LastRunFailed.Set(1)
	}
}

// WriteTextfile writes the counters to path for a node_exporter textfile
// collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	return nil
}

func outcomeLabel(s validate.Status) string {
	switch s {
	case validate.Passed:
		return "passed"
	case validate.PassedWithWarnings:
		return "passed_with_warnings"
	default:
		return "failed"
	}
}
