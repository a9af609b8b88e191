// Package observability provides Prometheus metrics for the API.
package observability

import (
	"net/http"
	"strconv"

	"github.com/adanest-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains the custom metrics recorded by the API.
// All recording methods are safe on a nil *Metrics.
type Metrics struct {
	RequestsTotal        *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	TokensIssued         *prometheus.CounterVec
	TokenPersistFailures *prometheus.CounterVec
	ChallengeOutcomes    *prometheus.CounterVec
}

// NewRegistry returns a private registry with the standard Go and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// NewMetrics creates and registers the API metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adanest_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adanest_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		TokensIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adanest_tokens_issued_total",
				Help: "Total number of signed tokens issued by purpose",
			},
			[]string{"purpose"},
		),
		TokenPersistFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adanest_token_persist_failures_total",
				Help: "Total number of issued-token records that failed to persist",
			},
			[]string{"purpose"},
		),
		ChallengeOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adanest_challenge_outcomes_total",
				Help: "Total number of stopped challenges by outcome",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(m.RequestsTotal)
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.TokensIssued)
	reg.MustRegister(m.TokenPersistFailures)
	reg.MustRegister(m.ChallengeOutcomes)

	return m
}

// Handler serves the metrics gathered by reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) TokenIssued(purpose domain.TokenPurpose) {
	if m == nil {
		return
	}
	m.TokensIssued.WithLabelValues(string(purpose)).Inc()
}

func (m *Metrics) TokenPersistFailed(purpose domain.TokenPurpose) {
	if m == nil {
		return
	}
	m.TokenPersistFailures.WithLabelValues(string(purpose)).Inc()
}

// ChallengeStopped records a terminal challenge; won selects the outcome label.
func (m *Metrics) ChallengeStopped(won bool) {
	if m == nil {
		return
	}
	outcome := "lost"
	if won {
		outcome = "won"
	}
	m.ChallengeOutcomes.WithLabelValues(outcome).Inc()
}
