// Package metrics exports deprep observability events to Prometheus.
//
// A [Metrics] value implements the hook interfaces of pkg/observability.
// [Metrics.Install] registers it globally so the engine, the registry clients
// and the lookup cache report into it.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/deprep/pkg/errors"
	"github.com/matzehuels/deprep/pkg/observability"
)

// Config configures the Prometheus collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "deprep").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry receives the collectors and serves them.
	// Default: a fresh registry.
	Registry *prometheus.Registry
}

// Option configures [New].
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
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
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "deprep",
		Buckets:   prometheus.DefBuckets,
	}
}

// Metrics holds the collectors. It is safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	analyses         *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	resolutions      *prometheus.CounterVec
	resolveDuration  *prometheus.HistogramVec

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// New creates and registers the collectors.
func New(opts ...Option) *Metrics {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(cfg.Registry)
	ns, cl := cfg.Namespace, cfg.ConstLabels

	return &Metrics{
		registry: cfg.Registry,

		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   "engine",
			Name:        "analyses_total",
			Help:        "Total number of dependency analyses started.",
			ConstLabels: cl,
		}, []string{"registry"}),

		analysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   "engine",
			Name:        "analysis_duration_seconds",
			Help:        "Wall time of a whole analysis in seconds.",
			ConstLabels: cl,
			Buckets:     cfg.Buckets,
		}, []string{"registry"}),

		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   "engine",
			Name:        "resolutions_total",
			Help:        "Settled resolutions by result: satisfied, a change kind, or an error code.",
			ConstLabels: cl,
		}, []string{"registry", "result"}),

		resolveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   "engine",
			Name:        "resolution_duration_seconds",
			Help:        "Latest-version lookup duration in seconds.",
			ConstLabels: cl,
			Buckets:     cfg.Buckets,
		}, []string{"registry"}),

		cacheOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   "cache",
			Name:        "operations_total",
			Help:        "Lookup cache operations by namespace and outcome.",
			ConstLabels: cl,
		}, []string{"namespace", "op"}),

		cacheBytes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   "cache",
			Name:        "written_bytes_total",
			Help:        "Bytes written to the lookup cache.",
			ConstLabels: cl,
		}, []string{"namespace"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Registry responses by host and status code.",
			ConstLabels: cl,
		}, []string{"method", "host", "status"}),

		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "Registry request duration in seconds.",
			ConstLabels: cl,
			Buckets:     cfg.Buckets,
		}, []string{"method", "host"}),

		httpErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   "http",
			Name:        "errors_total",
			Help:        "Registry requests that failed before a response arrived.",
			ConstLabels: cl,
		}, []string{"method", "host"}),
	}
}

// Install registers m as the engine, cache and HTTP hooks.
func (m *Metrics) Install() {
	observability.SetEngineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// WriteToTextfile writes the current values to path for the node exporter
// textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// OnAnalyzeStart implements observability.EngineHooks.
func (m *Metrics) OnAnalyzeStart(_ context.Context, registry string, _ int) {
	m.analyses.WithLabelValues(registry).Inc()
}

// OnResolveComplete implements observability.EngineHooks.
func (m *Metrics) OnResolveComplete(_ context.Context, registry, _, change string, d time.Duration, err error) {
	m.resolutions.WithLabelValues(registry, result(change, err)).Inc()
	m.resolveDuration.WithLabelValues(registry).Observe(d.Seconds())
}

// OnAnalyzeComplete implements observability.EngineHooks.
func (m *Metrics) OnAnalyzeComplete(_ context.Context, registry string, _, _ int, d time.Duration) {
	m.analysisDuration.WithLabelValues(registry).Observe(d.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(_ context.Context, ns string) {
	m.cacheOps.WithLabelValues(ns, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(_ context.Context, ns string) {
	m.cacheOps.WithLabelValues(ns, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(_ context.Context, ns string, size int) {
	m.cacheOps.WithLabelValues(ns, "set").Inc()
	m.cacheBytes.WithLabelValues(ns).Add(float64(size))
}

// OnRequest implements observability.HTTPHooks. Requests are counted when
// their response arrives.
func (m *Metrics) OnRequest(context.Context, string, string) {}

// OnResponse implements observability.HTTPHooks.
func (m *Metrics) OnResponse(_ context.Context, method, host string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, host).Observe(d.Seconds())
}

// OnError implements observability.HTTPHooks.
func (m *Metrics) OnError(_ context.Context, method, host string, _ error) {
	m.httpErrors.WithLabelValues(method, host).Inc()
}

func result(change string, err error) string {
	switch {
	case err != nil:
		if code := errors.GetCode(err); code != "" {
			return string(code)
		}
		return "error"
	case change == "":
		return "satisfied"
	default:
		return change
	}
}
