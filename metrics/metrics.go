// Package metrics provides an optional Prometheus collector for the request
// lifecycle of registered services.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records per-service request metrics. It is safe for
// concurrent use.
type Collector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec
	requestsAborted  *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates a Collector backed by its own registry.
func New() *Collector {
	registry := prometheus.NewRegistry()
	c := newCollector(registry)
	c.registry = registry
	return c
}

// NewWithRegisterer creates a Collector on a caller-supplied registerer.
func NewWithRegisterer(reg prometheus.Registerer) *Collector {
	return newCollector(reg)
}

func newCollector(reg prometheus.Registerer) *Collector {
	return &Collector{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "apikit_requests_total",
				Help: "Total number of HTTP requests dispatched",
			},
			[]string{"service", "method", "status"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apikit_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method"},
		),
		requestsInFlight: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "apikit_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
			[]string{"service", "method"},
		),
		requestsAborted: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "apikit_requests_aborted_total",
				Help: "Total number of requests aborted by the caller",
			},
			[]string{"service", "method"},
		),
	}
}

// Registry returns the collector's own registry, or nil when the collector
// was created on an external registerer.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RequestStarted marks a request in flight.
func (c *Collector) RequestStarted(service, method string) {
	if c == nil {
		return
	}
	c.requestsInFlight.WithLabelValues(service, method).Inc()
}

// RequestSettled records the outcome of a settled request. A status of 0
// means the request failed before a response was received.
func (c *Collector) RequestSettled(service, method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestsInFlight.WithLabelValues(service, method).Dec()
	c.requestsTotal.WithLabelValues(service, method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RequestAborted counts a caller-initiated abort.
func (c *Collector) RequestAborted(service, method string) {
	if c == nil {
		return
	}
	c.requestsAborted.WithLabelValues(service, method).Inc()
}
