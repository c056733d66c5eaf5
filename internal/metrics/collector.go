// Package metrics provides internal prometheus metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector exposes cache and delta-encoder metrics. A nil *Collector is a
// valid no-op receiver so instrumentation points never need nil checks at
// the call site.
type Collector struct {
	cacheHits    *prometheus.CounterVec
	cacheMisses  prometheus.Counter
	tokensSaved  prometheus.Counter
	costSaved    prometheus.Counter
	deltaEncodes *prometheus.CounterVec
	deltaSavings prometheus.Histogram

	logger *zap.Logger
}

// NewCollector creates a collector registering its metrics with reg. Pass
// prometheus.DefaultRegisterer for production or a fresh registry in tests.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total cache hits by level",
			},
			[]string{"level"},
		),
		cacheMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total cache misses",
			},
		),
		tokensSaved: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_tokens_saved_total",
				Help:      "Total tokens saved by cache hits",
			},
		),
		costSaved: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_cost_saved_total",
				Help:      "Total cost saved by cache hits (currency units)",
			},
		),
		deltaEncodes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "delta_encodes_total",
				Help:      "Total delta encodes by update method",
			},
			[]string{"method"},
		),
		deltaSavings: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "delta_token_savings_ratio",
				Help:      "Estimated token savings ratio per delta encode",
				Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
			},
		),
		logger: logger.With(zap.String("component", "metrics")),
	}
}

// RecordCacheHit records a hit at the given level and its savings.
func (c *Collector) RecordCacheHit(level string, tokens int, cost float64) {
	if c == nil {
		return
	}
	c.cacheHits.WithLabelValues(level).Inc()
	c.tokensSaved.Add(float64(tokens))
	c.costSaved.Add(cost)
}

// RecordCacheMiss records a full miss.
func (c *Collector) RecordCacheMiss() {
	if c == nil {
		return
	}
	c.cacheMisses.Inc()
}

// RecordDeltaEncode records one encode call and its savings ratio.
func (c *Collector) RecordDeltaEncode(method string, savings float64) {
	if c == nil {
		return
	}
	c.deltaEncodes.WithLabelValues(method).Inc()
	c.deltaSavings.Observe(savings)
}
