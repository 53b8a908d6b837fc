// Package metrics exposes Prometheus counters for the auth flows and the
// HTTP layer on a registry owned by the server instance.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sconn_admin"

type Metrics struct {
	registry *prometheus.Registry

	logins        *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
	logouts       prometheus.Counter
	tokensCleaned prometheus.Counter
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Access token refreshes by outcome.",
		}, []string{"outcome"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Logout requests.",
		}),
		tokensCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_tokens_cleaned_total",
			Help:      "Expired refresh tokens removed by the janitor.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		}, []string{"path", "method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "http",
			Name:      "request_duration_seconds",
			Help:      "Request duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),
	}

	m.registry.MustRegister(
		m.logins, m.refreshes, m.logouts, m.tokensCleaned, m.requests, m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Login(outcome string)   { m.logins.WithLabelValues(outcome).Inc() }
func (m *Metrics) Refresh(outcome string) { m.refreshes.WithLabelValues(outcome).Inc() }
func (m *Metrics) Logout()                { m.logouts.Inc() }

func (m *Metrics) TokensCleaned(n int64) {
	if n > 0 {
		m.tokensCleaned.Add(float64(n))
	}
}

// ObserveRequest records one served HTTP request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(path, method, code string, elapsed time.Duration) {
	m.requests.WithLabelValues(path, method, code).Inc()
	m.duration.WithLabelValues(path, method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
