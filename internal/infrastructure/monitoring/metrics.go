package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Drop reasons
const (
	ReasonMalformed   = "malformed"
	ReasonIdentity    = "identity"
	ReasonUnknownKind = "unknown_kind"
	ReasonQueueFull   = "queue_full"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Envelope metrics
	EnvelopesSent     *prometheus.CounterVec
	EnvelopesReceived *prometheus.CounterVec
	EnvelopesDropped  *prometheus.CounterVec

	// Component metrics
	HeightReports       *prometheus.CounterVec
	VisibilityCrossings *prometheus.CounterVec

	// Host metrics
	ContainersTracked prometheus.Gauge
	HandlerPanics     prometheus.Counter
	AnalyticsEvents   *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	startTime time.Time
}

// NewMetrics creates a metrics collector on reg. A nil reg gets a fresh
// registry with the Go and process collectors.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framebridge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "framebridge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),

		// Envelope metrics
		EnvelopesSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framebridge_envelopes_sent_total",
				Help: "Total number of envelopes posted",
			},
			[]string{"direction", "kind"},
		),
		EnvelopesReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framebridge_envelopes_received_total",
				Help: "Total number of envelopes accepted",
			},
			[]string{"direction", "kind"},
		),
		EnvelopesDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framebridge_envelopes_dropped_total",
				Help: "Total number of envelopes dropped",
			},
			[]string{"direction", "reason"},
		),

		// Component metrics
		HeightReports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framebridge_height_reports_total",
				Help: "Total number of height reports emitted",
			},
			[]string{"kind"},
		),
		VisibilityCrossings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framebridge_visibility_crossings_total",
				Help: "Total number of visibility threshold crossings emitted",
			},
			[]string{"scope"},
		),

		// Host metrics
		ContainersTracked: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "framebridge_containers_tracked",
				Help: "Number of component containers tracked by the host",
			},
		),
		HandlerPanics: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "framebridge_handler_panics_total",
				Help: "Total number of recovered host handler panics",
			},
		),
		AnalyticsEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "framebridge_analytics_events_total",
				Help: "Total number of analytics events forwarded by the host",
			},
			[]string{"kind"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "framebridge_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "framebridge_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus exposition handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSent records a posted envelope
func (m *Metrics) RecordSent(direction, kind string) {
	if m == nil {
		return
	}
	m.EnvelopesSent.WithLabelValues(direction, kind).Inc()
}

// RecordReceived records an accepted envelope
func (m *Metrics) RecordReceived(direction, kind string) {
	if m == nil {
		return
	}
	m.EnvelopesReceived.WithLabelValues(direction, kind).Inc()
}

// RecordDropped records a dropped envelope
func (m *Metrics) RecordDropped(direction, reason string) {
	if m == nil {
		return
	}
	m.EnvelopesDropped.WithLabelValues(direction, reason).Inc()
}

// RecordHeightReport records an emitted ready/resize
func (m *Metrics) RecordHeightReport(kind string) {
	if m == nil {
		return
	}
	m.HeightReports.WithLabelValues(kind).Inc()
}

// RecordCrossing records an emitted visibility crossing
func (m *Metrics) RecordCrossing(scope string) {
	if m == nil {
		return
	}
	m.VisibilityCrossings.WithLabelValues(scope).Inc()
}

// SetContainersTracked sets the number of tracked containers
func (m *Metrics) SetContainersTracked(count int) {
	if m == nil {
		return
	}
	m.ContainersTracked.Set(float64(count))
}

// IncHandlerPanics increments the recovered handler panic counter
func (m *Metrics) IncHandlerPanics() {
	if m == nil {
		return
	}
	m.HandlerPanics.Inc()
}

// RecordAnalytics records a forwarded analytics event
func (m *Metrics) RecordAnalytics(kind string) {
	if m == nil {
		return
	}
	m.AnalyticsEvents.WithLabelValues(kind).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}
