package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Bind outcomes
const (
	BindBound        = "bound"
	BindAlreadyMine  = "already_mine"
	BindAlreadyTaken = "already_bound"
	BindNoAccount    = "no_account"
	BindLostRace     = "lost_race"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	BindAttempts    *prometheus.CounterVec
	ApprovalsTotal  *prometheus.CounterVec
}

// New creates the metrics on their own registry, so tests can build as many
// instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kite_http_requests_total",
			Help: "Total number of HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kite_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		BindAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kite_freshman_bind_attempts_total",
			Help: "Freshman account bind attempts by outcome",
		}, []string{"outcome"}),
		ApprovalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kite_checking_approval_operations_total",
			Help: "Approval submissions and deletions",
		}, []string{"operation"}),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one finished HTTP request
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// IncrementBind counts a bind attempt by outcome
func (m *Metrics) IncrementBind(outcome string) {
	if m == nil {
		return
	}
	m.BindAttempts.WithLabelValues(outcome).Inc()
}

// IncrementApproval counts an approval write
func (m *Metrics) IncrementApproval(operation string) {
	if m == nil {
		return
	}
	m.ApprovalsTotal.WithLabelValues(operation).Inc()
}
