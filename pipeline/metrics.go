package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics 记录各阶段结果与整次运行耗时。
type Metrics struct {
	stageTotal   *prometheus.CounterVec
	stageSeconds *prometheus.HistogramVec
	runsTotal    *prometheus.CounterVec
	runSeconds   prometheus.Histogram
}

// NewMetrics registers the pipeline collectors on reg. A nil reg yields unregistered collectors.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		stageTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_total",
			Help:      "Stage invocations by outcome",
		}, []string{"stage", "outcome"}),
		stageSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Stage duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
		runsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by terminal state",
		}, []string{"state"}),
		runSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_run_duration_seconds",
			Help:      "Whole run duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (m *Metrics) observeStage(stage, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.stageTotal.WithLabelValues(stage, outcome).Inc()
	m.stageSeconds.WithLabelValues(stage).Observe(seconds)
}

func (m *Metrics) observeRun(state State, seconds float64) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(string(state)).Inc()
	m.runSeconds.Observe(seconds)
}
