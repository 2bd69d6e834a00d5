// Package metrics records pricing activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements risk.Observer using Prometheus.
type Recorder struct {
	runsTotal   *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastNPV     *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a recorder registered on reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swaprisk_runs_total",
				Help: "Total number of pricing scenarios and operations run",
			},
			[]string{"operation"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swaprisk_errors_total",
				Help: "Total number of failed pricing scenarios and operations",
			},
			[]string{"operation"},
		),
		lastNPV: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "swaprisk_last_npv",
				Help: "NPV from the most recent run of a scenario",
			},
			[]string{"scenario"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "swaprisk_operation_duration_seconds",
				Help:    "Duration of pricing operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// ObserveScenario records one engine scenario.
func (r *Recorder) ObserveScenario(scenario string, elapsed time.Duration, npv float64, err error) {
	r.RecordRun(scenario, elapsed.Seconds(), err)
	if err == nil {
		r.lastNPV.WithLabelValues(scenario).Set(npv)
	}
}

// RecordRun records a completed operation and its latency.
func (r *Recorder) RecordRun(op string, seconds float64, err error) {
	r.runsTotal.WithLabelValues(op).Inc()
	r.latency.WithLabelValues(op).Observe(seconds)
	if err != nil {
		r.RecordError(op)
	}
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(op string) {
	r.errorsTotal.WithLabelValues(op).Inc()
}
