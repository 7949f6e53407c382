// Package metrics provides Prometheus metrics for the friends API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "friends_api"

// Manager owns a private registry and every collector the service exports.
// Each Manager is independent, so tests can build as many as they need.
type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	storeOperations     *prometheus.CounterVec
	storeDuration       *prometheus.HistogramVec
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	buckets        []float64
	processMetrics bool
}

// WithBuckets overrides the latency histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(o *options) { o.buckets = buckets }
}

// WithProcessMetrics adds the Go runtime and process collectors.
func WithProcessMetrics() Option {
	return func(o *options) { o.processMetrics = true }
}

// NewManager creates and registers all collectors.
func NewManager(opts ...Option) *Manager {
	o := options{buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Manager{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   o.buckets,
		}, []string{"route", "method"}),
		storeOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_operations_total",
			Help:      "Friend store operations by operation and result.",
		}, []string{"operation", "result"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Friend store latency by operation.",
			Buckets:   o.buckets,
		}, []string{"operation"}),
	}

	m.registry.MustRegister(m.httpRequests, m.httpRequestDuration, m.storeOperations, m.storeDuration)
	if o.processMetrics {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return m
}

// ObserveHTTPRequest records one finished request.
func (m *Manager) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// ObserveStoreOperation records one finished store call. It satisfies
// storage.Observer.
func (m *Manager) ObserveStoreOperation(operation, result string, duration time.Duration) {
	m.storeOperations.WithLabelValues(operation, result).Inc()
	m.storeDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}
