package httpapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instruments the scheduler's generation endpoint: how long each
// algorithm takes, how it resolved, and how many backtracking attempts
// it burned. Grounded on the teacher's service.MetricsService
// (registry + HistogramVec + CounterVec), trimmed of the teacher's
// DB-query and generic cache-hit-ratio collectors since this domain has
// neither a database nor a request-scoped cache lookup to instrument.
type Metrics struct {
	generationDuration *prometheus.HistogramVec
	outcomeTotal       *prometheus.CounterVec
	backtrackAttempts  prometheus.Counter
	handler            http.Handler
}

// NewMetrics registers the scheduler's Prometheus collectors on a fresh
// registry, matching the teacher's per-service-isolated-registry
// convention rather than the global default registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	generationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedule_generation_duration_seconds",
		Help:    "Duration of a schedule generation run by algorithm",
		Buckets: prometheus.DefBuckets,
	}, []string{"algorithm"})

	outcomeTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generation_outcomes_total",
		Help: "Count of schedule generation runs by algorithm and outcome",
	}, []string{"algorithm", "outcome"})

	backtrackAttempts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_backtrack_attempts_total",
		Help: "Total placement attempts made by the backtracking solver across all runs",
	})

	registry.MustRegister(generationDuration, outcomeTotal, backtrackAttempts)

	return &Metrics{
		generationDuration: generationDuration,
		outcomeTotal:       outcomeTotal,
		backtrackAttempts:  backtrackAttempts,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveGeneration records one completed (successful or not) generation
// run's duration and outcome.
func (m *Metrics) ObserveGeneration(algorithm, outcome string, d time.Duration, attempts int) {
	if m == nil {
		return
	}
	m.generationDuration.WithLabelValues(algorithm).Observe(d.Seconds())
	m.outcomeTotal.WithLabelValues(algorithm, outcome).Inc()
	if attempts > 0 {
		m.backtrackAttempts.Add(float64(attempts))
	}
}
