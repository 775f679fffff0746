// Package metrics exposes Prometheus metrics for WebCell rendering.
//
// Metrics collected:
//   - webcell_renders_total: Counter of component renders by tag and status
//   - webcell_render_duration_seconds: Histogram of render+patch duration by tag
//   - webcell_update_requests_total: Counter of update requests by tag, split
//     into scheduled and coalesced
//   - webcell_mounted_components: Gauge of mounted components by tag
//   - webcell_dom_mutations_total: Counter of document mutations by kind
//   - webcell_http_requests_total: Counter of preview server requests by
//     route and status code
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/webcell/pkg/dom"
)

// Config configures the metrics.
type Config struct {
	// Namespace is the metrics namespace (default: "webcell").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the metrics.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "webcell",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the WebCell collectors.
type Metrics struct {
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	updateRequests *prometheus.CounterVec
	mounted        *prometheus.GaugeVec
	mutations      *prometheus.CounterVec
	requests       *prometheus.CounterVec
}

// New creates and registers the collectors.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of component renders",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Component render and patch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"tag"}),

		updateRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "update_requests_total",
			Help:        "Total number of update requests, scheduled or coalesced into a pending one",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "result"}),

		mounted: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mounted_components",
			Help:        "Number of mounted components",
			ConstLabels: config.ConstLabels,
		}, []string{"tag"}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dom_mutations_total",
			Help:        "Total number of document mutations",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of preview server requests",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "code"}),
	}
}

// RecordRender records one update of a component.
func (m *Metrics) RecordRender(tag string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.renders.WithLabelValues(tag, status).Inc()
	m.renderDuration.WithLabelValues(tag).Observe(d.Seconds())
}

// RecordUpdateRequest records an update request. coalesced is true when a
// pending update absorbed it.
func (m *Metrics) RecordUpdateRequest(tag string, coalesced bool) {
	if m == nil {
		return
	}
	result := "scheduled"
	if coalesced {
		result = "coalesced"
	}
	m.updateRequests.WithLabelValues(tag, result).Inc()
}

// Mounted adjusts the mounted gauge of tag by delta.
func (m *Metrics) Mounted(tag string, delta float64) {
	if m == nil {
		return
	}
	m.mounted.WithLabelValues(tag).Add(delta)
}

// Observe counts every mutation of doc until the returned function is
// called.
func (m *Metrics) Observe(doc *dom.Document) func() {
	if m == nil {
		return func() {}
	}
	return doc.Observe(func(mu dom.Mutation) {
		m.mutations.WithLabelValues(mu.Kind.String()).Inc()
	})
}

// RecordRequest records one served HTTP request.
func (m *Metrics) RecordRequest(route string, code int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
