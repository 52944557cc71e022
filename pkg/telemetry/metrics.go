// Package telemetry provides navigation observers backed by Prometheus
// and OpenTelemetry. Both attach to an engine via router.WithObservers.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pathline-dev/pathline/pkg/router"
)

// MetricsConfig configures the Prometheus navigation observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "pathline").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus navigation observer.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "pathline",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a router.Observer that exports navigation metrics.
type Metrics struct {
	navigationsTotal   *prometheus.CounterVec
	navigationDuration *prometheus.HistogramVec
	guardDenialsTotal  *prometheus.CounterVec
	notFoundTotal      prometheus.Counter
	faultsTotal        prometheus.Counter
	activeSessions     prometheus.Gauge
}

// NewMetrics creates a Prometheus navigation observer and registers its
// collectors with the configured registry. Create one observer per
// registry; registering twice panics inside promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		navigationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigation attempts",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern", "type", "outcome"}),

		navigationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"pattern"}),

		guardDenialsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "guard_denials_total",
			Help:        "Navigations blocked by a guard",
			ConstLabels: config.ConstLabels,
		}, []string{"pattern"}),

		notFoundTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "not_found_total",
			Help:        "Navigations that matched no registered route",
			ConstLabels: config.ConstLabels,
		}),

		faultsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "faults_total",
			Help:        "Navigations that ended in a handler or guard fault",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Currently connected live sessions",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// SessionOpened records a new live session. Wire it to the live server's
// OnConnect hook.
func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
}

// SessionClosed records a live session teardown.
func (m *Metrics) SessionClosed() {
	m.activeSessions.Dec()
}

// ObserveNavigation implements router.Observer.
func (m *Metrics) ObserveNavigation(obs router.Observation) {
	pattern := obs.Pattern
	if pattern == "" {
		pattern = "(none)"
	}

	m.navigationsTotal.WithLabelValues(pattern, string(obs.Event.Type), string(obs.Outcome)).Inc()
	m.navigationDuration.WithLabelValues(pattern).Observe(obs.Duration.Seconds())

	switch obs.Outcome {
	case router.OutcomeBlocked:
		m.guardDenialsTotal.WithLabelValues(pattern).Inc()
	case router.OutcomeNotFound:
		m.notFoundTotal.Inc()
	case router.OutcomeError:
		m.faultsTotal.Inc()
	}
}
