package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCollector_RecordCacheHit(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("tokensave", reg, zap.NewNop())

	c.RecordCacheHit("exact", 10, 0.001)
	c.RecordCacheHit("exact", 5, 0.002)
	c.RecordCacheHit("semantic", 7, 0.003)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheHits.WithLabelValues("exact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheHits.WithLabelValues("semantic")))
	assert.Equal(t, 22.0, testutil.ToFloat64(c.tokensSaved))
	assert.InDelta(t, 0.006, testutil.ToFloat64(c.costSaved), 1e-9)
}

func TestCollector_RecordCacheMiss(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("tokensave", reg, zap.NewNop())

	c.RecordCacheMiss()
	c.RecordCacheMiss()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheMisses))
}

func TestCollector_RecordDeltaEncode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("tokensave", reg, zap.NewNop())

	c.RecordDeltaEncode("line_diff", 0.7)
	c.RecordDeltaEncode("full", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.deltaEncodes.WithLabelValues("line_diff")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.deltaEncodes.WithLabelValues("full")))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.RecordCacheHit("exact", 1, 0.1)
		c.RecordCacheMiss()
		c.RecordDeltaEncode("full", 0)
	})
}
