// Package telemetry counts interpretation outcomes with Prometheus
// collectors and exports them to a node-exporter textfile.
package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dotcommander/egralens/internal/generation"
)

// Recorder owns a private registry so several recorders can coexist in
// one process (tests, batch runs).
type Recorder struct {
	registry        *prometheus.Registry
	interpretations *prometheus.CounterVec
	failures        *prometheus.CounterVec
	duration        prometheus.Histogram
}

// NewRecorder creates and registers the egralens collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		interpretations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "egralens_interpretations_total",
				Help: "Total number of interpretations by outcome",
			},
			[]string{"outcome"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "egralens_generation_failures_total",
				Help: "Total number of failed generation calls by kind",
			},
			[]string{"kind"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "egralens_generation_duration_seconds",
				Help:    "Duration of generation calls",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
	}
	r.registry.MustRegister(r.interpretations, r.failures, r.duration)
	return r
}

// RecordInterpretation counts one interpretation with the given outcome.
func (r *Recorder) RecordInterpretation(outcome string) {
	r.interpretations.WithLabelValues(outcome).Inc()
}

// RecordGeneration observes a generation call and counts it as a failure
// when err is non-nil.
func (r *Recorder) RecordGeneration(elapsed time.Duration, err error) {
	r.duration.Observe(elapsed.Seconds())
	if err != nil {
		r.failures.WithLabelValues(string(generation.KindOf(err))).Inc()
	}
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current metrics in the Prometheus text format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
