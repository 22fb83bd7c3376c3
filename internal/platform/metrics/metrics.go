// Package metrics exposes Prometheus collectors for HTTP traffic and authentication outcomes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics is safe to use and records nothing.
type Metrics struct {
	inFlight        prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	loginTotal      *prometheus.CounterVec
	registerTotal   *prometheus.CounterVec
	gateTotal       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		loginTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_login_total",
				Help: "Login attempts by result.",
			},
			[]string{"result"},
		),
		registerTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_registration_total",
				Help: "Registration attempts by result.",
			},
			[]string{"result"},
		),
		gateTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_gate_total",
				Help: "Requests passing the authentication gate by outcome.",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(
		m.inFlight,
		m.requestsTotal,
		m.requestDuration,
		m.loginTotal,
		m.registerTotal,
		m.gateTotal,
	)
	return m
}

// ObserveLogin counts one login attempt.
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.loginTotal.WithLabelValues(result).Inc()
}

// ObserveRegistration counts one registration attempt.
func (m *Metrics) ObserveRegistration(result string) {
	if m == nil {
		return
	}
	m.registerTotal.WithLabelValues(result).Inc()
}

// ObserveGate counts one pass through the authentication gate.
func (m *Metrics) ObserveGate(outcome string) {
	if m == nil {
		return
	}
	m.gateTotal.WithLabelValues(outcome).Inc()
}

// Middleware records RPS, latency and in-flight requests.
// Routes are labelled by their gin pattern to keep cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		m.inFlight.Inc()
		defer m.inFlight.Dec()

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		m.requestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(method, route, status).Inc()
	}
}

// Handler serves the collectors registered in g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
