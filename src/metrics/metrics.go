// Package metrics instruments the build scheduler with Prometheus
// counters and histograms, served locally for scrape rather than
// pushed, since a hackbuild invocation's own lifetime is too short for
// a per-target push cadence to be interesting.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thought-machine/hackbuild/src/cli/logging"
)

var log = logging.Log

var buckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 25.0, 50.0}

// Collector holds the counters and histograms for one build invocation.
// It's constructed once per Scheduler and handed in rather than kept as
// a package-level singleton, matching the rest of this codebase's
// explicit-session style (no process-wide globals beyond the logger).
type Collector struct {
	registry       *prometheus.Registry
	phaseTargets   *prometheus.CounterVec
	phaseDurations *prometheus.HistogramVec
}

// NewCollector constructs a Collector with its own private registry.
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.phaseTargets = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hackbuild_phase_targets_total",
		Help: "Count of targets processed in each build phase",
	}, []string{"phase"})

	c.phaseDurations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hackbuild_phase_duration_seconds",
		Help:    "Durations of each target's work within a build phase",
		Buckets: buckets,
	}, []string{"phase"})

	c.registry.MustRegister(c.phaseTargets)
	c.registry.MustRegister(c.phaseDurations)
	return c
}

// RecordPhase records one target's completion within phase and how
// long its hook work took.
func (c *Collector) RecordPhase(phase string, duration time.Duration) {
	c.phaseTargets.WithLabelValues(phase).Inc()
	c.phaseDurations.WithLabelValues(phase).Observe(duration.Seconds())
}

// Handler returns the http.Handler that serves this Collector's metrics
// in the Prometheus text exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve starts a local HTTP server on addr exposing /metrics, returning
// immediately; it's the caller's responsibility to decide whether the
// build should wait for it (it shouldn't: this is best-effort
// observability, not a dependency of the build completing).
func Serve(addr string, c *Collector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Warning("metrics server on %s stopped: %s", addr, err)
		}
	}()
}
