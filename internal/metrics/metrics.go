// Package metrics defines the Prometheus collectors of the server.
//
// All methods are safe to call on a nil *Metrics, so components can be built
// without instrumentation in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "listas"

// Metrics holds the collectors registered for one server.
type Metrics struct {
	rpcDuration    *prometheus.HistogramVec
	subscriptions  *prometheus.GaugeVec
	productLookups *prometheus.CounterVec
	scanSessions   *prometheus.CounterVec
	notifications  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Duration of RPC calls by procedure and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		subscriptions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_subscriptions",
			Help:      "Number of open live subscriptions by kind.",
		}, []string{"kind"}),
		productLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_lookups_total",
			Help:      "Product database lookups by kind and outcome.",
		}, []string{"kind", "outcome"}),
		scanSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scan_sessions_total",
			Help:      "Barcode scan sessions by final outcome.",
		}, []string{"outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications delivered by channel.",
		}, []string{"channel"}),
	}

	reg.MustRegister(m.rpcDuration, m.subscriptions, m.productLookups, m.scanSessions, m.notifications)
	return m
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveRPC records the duration of a finished call.
func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}

// SubscriptionStarted increments the open subscriptions of kind.
// The returned func decrements it again.
func (m *Metrics) SubscriptionStarted(kind string) func() {
	if m == nil {
		return func() {}
	}
	g := m.subscriptions.WithLabelValues(kind)
	g.Inc()
	return g.Dec
}

// ProductLookup counts a product lookup.
func (m *Metrics) ProductLookup(kind, outcome string) {
	if m == nil {
		return
	}
	m.productLookups.WithLabelValues(kind, outcome).Inc()
}

// ScanSession counts a finished scan session.
func (m *Metrics) ScanSession(outcome string) {
	if m == nil {
		return
	}
	m.scanSessions.WithLabelValues(outcome).Inc()
}

// NotificationsSent counts n deliveries over channel.
func (m *Metrics) NotificationsSent(channel string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.notifications.WithLabelValues(channel).Add(float64(n))
}

// StatusLabel renders an HTTP status for use as a code label.
func StatusLabel(status int) string {
	return strconv.Itoa(status)
}
