package domparts

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	maxDepth         int
	logger           *zap.Logger
	registerer       prometheus.Registerer
	metricsNamespace string
	tracerProvider   trace.TracerProvider
	document         *Document
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		maxDepth:         DefaultMaxDepth,
		metricsNamespace: DefaultMetricsNamespace,
	}
}

// WithMaxDepth sets the maximum nesting depth of templates, nested lists
// and thunk chains. Use 0 for unlimited depth.
// Default: 64
func WithMaxDepth(depth int) Option {
	return func(c *engineConfig) {
		c.maxDepth = depth
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics registers the engine's Prometheus collectors with reg.
// Default: nil (no metrics)
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *engineConfig) {
		c.registerer = reg
	}
}

// WithMetricsNamespace sets the namespace of the engine's metrics.
// Default: "domparts"
func WithMetricsNamespace(namespace string) Option {
	return func(c *engineConfig) {
		if namespace != "" {
			c.metricsNamespace = namespace
		}
	}
}

// WithTracerProvider sets the provider used for render spans.
// Default: the global OpenTelemetry provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *engineConfig) {
		c.tracerProvider = tp
	}
}

// WithDocument makes the engine mutate nodes through doc, sharing its
// listeners, properties and statistics.
// Default: a new document per engine
func WithDocument(doc *Document) Option {
	return func(c *engineConfig) {
		c.document = doc
	}
}
