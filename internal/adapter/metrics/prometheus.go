// package metrics exports validation metrics to Prometheus
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.com/answer-validator.net/internal/core/ports/primary"
)

var _ primary.ValidationMetrics = (*PrometheusMetrics)(nil)

type PrometheusMetrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	outcomes        *prometheus.CounterVec
	execDuration    *prometheus.HistogramVec
	persistFailures prometheus.Counter
	gatherer        prometheus.Gatherer
}

// NewPrometheusMetrics registers the validation collectors on a fresh registry
func NewPrometheusMetrics(namespace string) *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewPrometheusMetricsWith(reg, reg, namespace)
}

func NewPrometheusMetricsWith(reg prometheus.Registerer, gatherer prometheus.Gatherer, namespace string) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_requests_total",
			Help:      "Validation requests by result.",
		}, []string{"result"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_request_duration_seconds",
			Help:      "Wall-clock time of a validation request.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}, []string{"result"}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_outcomes_total",
			Help:      "Per test case outcomes by status and validation mode.",
		}, []string{"status", "mode"}),
		execDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "executor_call_duration_seconds",
			Help:      "Time spent waiting for the executor per test case.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}, []string{"mode"}),
		persistFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_persist_failures_total",
			Help:      "Outcome batches dropped after the persistence retry failed.",
		}),
		gatherer: gatherer,
	}
}

func (m *PrometheusMetrics) ObserveRequest(result string, duration time.Duration) {
	m.requests.WithLabelValues(result).Inc()
	m.requestDuration.WithLabelValues(result).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) ObserveOutcome(status string, mode string) {
	m.outcomes.WithLabelValues(status, mode).Inc()
}

func (m *PrometheusMetrics) ObserveExecution(mode string, duration time.Duration) {
	m.execDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) ObservePersistFailure() {
	m.persistFailures.Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
