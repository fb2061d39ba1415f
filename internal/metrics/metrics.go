package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for fetches and pipeline runs.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	PagesFetched     *prometheus.CounterVec // labels: source
	CandlesFetched   prometheus.Counter
	TruncatedFetches prometheus.Counter
	Runs             *prometheus.CounterVec // labels: status
	RunDuration      prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketbrief_pages_fetched_total",
			Help: "Provider pages fetched, by source.",
		}, []string{"source"}),
		CandlesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketbrief_candles_fetched_total",
			Help: "Candles kept after merge.",
		}),
		TruncatedFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketbrief_truncated_fetches_total",
			Help: "Paged fetches that stopped early and returned a partial series.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketbrief_runs_total",
			Help: "Pipeline runs, by status.",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "marketbrief_run_duration_seconds",
			Help:    "Wall time of a full pipeline run.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.PagesFetched, m.CandlesFetched, m.TruncatedFetches, m.Runs, m.RunDuration)
	}
	return m
}

func (m *Metrics) PageFetched(source string) {
	if m == nil {
		return
	}
	m.PagesFetched.WithLabelValues(source).Inc()
}

func (m *Metrics) Candles(n int) {
	if m == nil {
		return
	}
	m.CandlesFetched.Add(float64(n))
}

func (m *Metrics) Truncated() {
	if m == nil {
		return
	}
	m.TruncatedFetches.Inc()
}

// RunFinished records a run outcome and its duration.
func (m *Metrics) RunFinished(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(status).Inc()
	m.RunDuration.Observe(d.Seconds())
}
