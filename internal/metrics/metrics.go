// Package metrics exposes Prometheus metrics for the auth service
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/you/authsvc/domain"
)

// Metrics contains the custom Prometheus metrics for authsvc
type Metrics struct {
	Operations      *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a registry with the Go/process collectors and the authsvc metrics
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authsvc_operations_total",
				Help: "Total number of auth operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authsvc_http_request_duration_seconds",
				Help:    "HTTP request latency by method, route and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		registry: registry,
	}

	registry.MustRegister(m.Operations)
	registry.MustRegister(m.RequestDuration)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordOperation counts one auth operation, labelled by the outcome of err
func (m *Metrics) RecordOperation(operation string, err error) {
	m.Operations.WithLabelValues(operation, Outcome(err)).Inc()
}

// ObserveRequest records the latency of one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Outcome maps an operation error to a bounded label value
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrInactiveAccount):
		return "inactive_account"
	case errors.Is(err, domain.ErrDuplicateActiveAccount):
		return "duplicate_account"
	case errors.Is(err, domain.ErrNoToken):
		return "no_token"
	case errors.Is(err, domain.ErrTokenInvalid):
		return "invalid_token"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired_token"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "internal"
	}
}
