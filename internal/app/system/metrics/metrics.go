// Package metrics holds the Prometheus collectors the service exports on
// /metrics: HTTP request counters and durations, and the outcome of every
// cohort/program link operation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Link outcomes recorded by ObserveLink.
const (
	OutcomeOK                 = "ok"
	OutcomeRejected           = "rejected"
	OutcomeCompensated        = "compensated"
	OutcomeCompensationFailed = "compensation_failed"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	linkOps      *prometheus.CounterVec
	linkSteps    *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "programhub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "programhub",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		linkOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "programhub",
			Name:      "link_operations_total",
			Help:      "Cohort/program link operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		linkSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "programhub",
			Name:      "link_steps_total",
			Help:      "Individual link steps by step name and final status.",
		}, []string{"step", "status"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.linkOps, m.linkSteps,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// ObserveLink counts one finished link operation. A nil receiver is a no-op.
func (m *Metrics) ObserveLink(operation, outcome string) {
	if m == nil {
		return
	}
	m.linkOps.WithLabelValues(operation, outcome).Inc()
}

// ObserveStep counts one saga step in its final status.
func (m *Metrics) ObserveStep(step, status string) {
	if m == nil {
		return
	}
	m.linkSteps.WithLabelValues(step, status).Inc()
}

// Middleware records request counts and latency labelled by the chi route
// pattern, which keeps label cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
