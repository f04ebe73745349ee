package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
	"vcardops/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess      = "success"
	OutcomeRejected     = "rejected"
	OutcomeVerification = "verification"
	OutcomeError        = "error"
)

const (
	ActionCharge      = "charge"
	ActionLink        = "link"
	ActionManual      = "manual_payment"
	ActionDoNotCharge = "do_not_charge"
)

// Metrics owns a private registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	paymentActions *prometheus.CounterVec
	cacheEvents    *prometheus.CounterVec
}

func New(cfg *config.Config) *Metrics {
	namespace := strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(cfg.App.Name)

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		paymentActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_actions_total",
			Help:      "Payment actions by kind, gateway and outcome",
		}, []string{"action", "gateway", "outcome"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_cache_invalidations_total",
			Help:      "Reservation cache invalidations by source",
		}, []string{"source"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.paymentActions,
		m.cacheEvents,
	)

	return m
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unknown"
	}

	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) PaymentAction(action, gateway, outcome string) {
	m.paymentActions.WithLabelValues(action, gateway, outcome).Inc()
}

func (m *Metrics) CacheInvalidated(source string) {
	m.cacheEvents.WithLabelValues(source).Inc()
}

// PaymentActionCount reads back a payment counter.
func (m *Metrics) PaymentActionCount(action, gateway, outcome string) prometheus.Counter {
	return m.paymentActions.WithLabelValues(action, gateway, outcome)
}

func (m *Metrics) CacheInvalidatedCount(source string) prometheus.Counter {
	return m.cacheEvents.WithLabelValues(source)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
