package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/racecoord/internal/orchestration"
	"github.com/agbru/racecoord/internal/task"
)

const namespace = "racecoord"

// PrometheusRecorder implements orchestration.Recorder on a private registry,
// so several recorders can live in one process (one per test, for instance).
type PrometheusRecorder struct {
	registry *prometheus.Registry

	races        *prometheus.CounterVec
	taskResults  *prometheus.CounterVec
	taskDuration prometheus.Histogram
	resolution   *prometheus.HistogramVec
	taskValue    prometheus.Histogram
}

var _ orchestration.Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder registers the race metrics and the Go runtime
// collectors on a fresh registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		races: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "races_total",
			Help:      "Resolved races by outcome.",
		}, []string{"outcome"}),
		taskResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_results_total",
			Help:      "Completed tasks by result.",
		}, []string{"result"}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_elapsed_seconds",
			Help:      "Wall-clock time from race start to task completion.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
		resolution: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolution_seconds",
			Help:      "Wall-clock time from race start to resolution.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, []string{"outcome"}),
		taskValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_success_value_seconds",
			Help:      "Values reported by successful tasks.",
			Buckets:   prometheus.LinearBuckets(0, 2.5, 13),
		}),
	}
	r.registry.MustRegister(
		r.races, r.taskResults, r.taskDuration, r.resolution, r.taskValue,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// RecordTask counts a task completion.
func (r *PrometheusRecorder) RecordTask(res task.Result, elapsed time.Duration) {
	label := "failure"
	if res.OK() {
		label = "success"
		r.taskValue.Observe(res.Value.Seconds())
	}
	r.taskResults.WithLabelValues(label).Inc()
	r.taskDuration.Observe(elapsed.Seconds())
}

// RecordOutcome counts a resolved race.
func (r *PrometheusRecorder) RecordOutcome(o orchestration.Outcome, elapsed time.Duration) {
	kind := o.Kind.String()
	r.races.WithLabelValues(kind).Inc()
	r.resolution.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// Gatherer returns the registry backing the recorder.
func (r *PrometheusRecorder) Gatherer() prometheus.Gatherer { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes all metrics to path in the text format, for the node
// exporter textfile collector. The file is replaced atomically.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
