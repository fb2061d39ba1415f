package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.PageFetched("binance")
	m.PageFetched("binance")
	m.Candles(1500)
	m.Truncated()
	m.RunFinished("ok", 2*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PagesFetched.WithLabelValues("binance")))
	assert.Equal(t, 1500.0, testutil.ToFloat64(m.CandlesFetched))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TruncatedFetches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.PageFetched("x")
		m.Candles(1)
		m.Truncated()
		m.RunFinished("failed", time.Second)
	})
}
