// Package metrics exposes Prometheus instrumentation for verification attempts.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "iotc_provision"

// Metrics holds the provisioning collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	attempts  *prometheus.CounterVec
	failures  *prometheus.CounterVec
	publishes *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Verification attempts started, by acquisition method.",
		}, []string{"method"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Failed verification attempts, by failure kind.",
		}, []string{"kind"}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publishes_total",
			Help:      "Configuration publications, by slot kind.",
		}, []string{"slot"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempt_duration_seconds",
			Help:      "Duration of finished verification attempts.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"method", "outcome"}),
	}
	for _, c := range []prometheus.Collector{m.attempts, m.failures, m.publishes, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AttemptStarted counts an attempt for method.
func (m *Metrics) AttemptStarted(method string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(method).Inc()
}

// AttemptFailed counts a failure of the given kind.
func (m *Metrics) AttemptFailed(kind string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(kind).Inc()
}

// Published counts a publication of the given slot kind.
func (m *Metrics) Published(slot string) {
	if m == nil {
		return
	}
	m.publishes.WithLabelValues(slot).Inc()
}

// ObserveAttempt records the duration of a finished attempt.
func (m *Metrics) ObserveAttempt(method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(method, outcome).Observe(d.Seconds())
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
