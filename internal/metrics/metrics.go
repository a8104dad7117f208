package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the photo register.
type Metrics struct {
	// Request outcomes: responded, rejected, not_found, failed
	RequestOutcome *prometheus.CounterVec

	// Full request latency, lookup through encryption
	RequestLatency prometheus.Histogram
}

// New creates a new Metrics instance registered on the default registry.
func New() *Metrics {
	return &Metrics{
		RequestOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "photoregister_request_outcomes_total",
			Help: "Total photo request outcomes",
		}, []string{"outcome"}),

		RequestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "photoregister_request_duration_seconds",
			Help:    "Duration of photo request processing including watermark and encryption",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementOutcome records a request outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.RequestOutcome.WithLabelValues(outcome).Inc()
	}
}

// ObserveRequestLatency records the total processing duration.
func (m *Metrics) ObserveRequestLatency(d time.Duration) {
	if m != nil {
		m.RequestLatency.Observe(d.Seconds())
	}
}
