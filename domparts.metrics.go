package domparts

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric label names
const (
	LabelMode      = "mode"
	LabelCache     = "cache"
	LabelResult    = "result"
	LabelOperation = "operation"
)

// engineMetrics holds the Prometheus collectors of one engine. A nil
// *engineMetrics records nothing.
//
// Metrics collected:
//   - <ns>_renders_total: renders by mode
//   - <ns>_render_errors_total: failed renders by mode
//   - <ns>_render_duration_seconds: render duration by mode
//   - <ns>_cache_requests_total: template cache lookups by cache and result
//   - <ns>_dom_mutations_total: DOM mutations by operation
type engineMetrics struct {
	renders        *prometheus.CounterVec
	renderErrors   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	cacheRequests  *prometheus.CounterVec
	domMutations   *prometheus.CounterVec
}

func newEngineMetrics(reg prometheus.Registerer, namespace string) *engineMetrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)

	return &engineMetrics{
		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of template renders",
		}, []string{LabelMode}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Total number of failed template renders",
		}, []string{LabelMode}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Template render duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{LabelMode}),

		cacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Template cache lookups by cache and result",
		}, []string{LabelCache, LabelResult}),

		domMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dom_mutations_total",
			Help:      "DOM mutations performed by the engine",
		}, []string{LabelOperation}),
	}
}

func (m *engineMetrics) observeRender(mode string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(mode).Inc()
	m.renderDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		m.renderErrors.WithLabelValues(mode).Inc()
	}
}

func (m *engineMetrics) cacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	result := CacheResultMiss
	if hit {
		result = CacheResultHit
	}
	m.cacheRequests.WithLabelValues(cache, result).Inc()
}

func (m *engineMetrics) mutation(op string) {
	if m == nil {
		return
	}
	m.domMutations.WithLabelValues(op).Inc()
}
