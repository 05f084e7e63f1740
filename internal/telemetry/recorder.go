// Package telemetry records run metrics in a per-run Prometheus registry and
// exports them in the text exposition format.
package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spboyer/quorum/internal/models"
)

const namespace = "quorum"

// Outcome label values for evaluator calls.
const (
	OutcomeOK         = "ok"
	OutcomeNoScore    = "no_score"
	OutcomeCallFailed = "call_failed"
)

// Recorder owns the metrics of a single run. It is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	calls          *prometheus.CounterVec
	sampleScores   *prometheus.HistogramVec
	methodDuration *prometheus.HistogramVec
	methodFailures *prometheus.CounterVec
	unifiedScores  *prometheus.GaugeVec
	categoryGPA    *prometheus.GaugeVec
	overallGPA     prometheus.Gauge
	weightCoverage prometheus.Gauge
	recommended    *prometheus.CounterVec
}

// NewRecorder creates a recorder backed by a fresh registry, so nothing leaks
// between runs or into the default registerer.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluator_calls_total",
			Help:      "Evaluator calls by method, backend and outcome.",
		}, []string{"method", "backend", "outcome"}),
		sampleScores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sample_score",
			Help:      "Normalized sample scores by method and category.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}, []string{"method", "category"}),
		methodDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "method_duration_seconds",
			Help:      "Wall time of each evaluation method.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"method"}),
		methodFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "method_failures_total",
			Help:      "Evaluation methods that failed entirely.",
		}, []string{"method"}),
		unifiedScores: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unified_score",
			Help:      "Cross-method unified score per category.",
		}, []string{"category"}),
		categoryGPA: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "category_gpa",
			Help:      "GPA per graded category.",
		}, []string{"category"}),
		overallGPA: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overall_gpa",
			Help:      "Weighted overall GPA. Absent from a run with insufficient data.",
		}),
		weightCoverage: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "weight_coverage_ratio",
			Help:      "Share of the registry's category weight that was graded.",
		}),
		recommended: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Recommendations by priority and source.",
		}, []string{"priority", "source"}),
	}
}

// ObserveSample records one evaluator call.
func (r *Recorder) ObserveSample(res models.SampleResult) {
	outcome := OutcomeCallFailed

	switch {
	case res.OK():
		outcome = OutcomeOK
		r.sampleScores.WithLabelValues(res.Method, res.Category).Observe(res.Sample.Score)
	case res.Reason == models.ReasonNoScore:
		outcome = OutcomeNoScore
	}

	r.calls.WithLabelValues(res.Method, res.Backend, outcome).Inc()
}

// ObserveMethod records a finished method.
func (r *Recorder) ObserveMethod(m models.MethodResult) {
	r.methodDuration.WithLabelValues(m.Method).Observe(float64(m.DurationMs) / 1000)

	if m.Failed() {
		r.methodFailures.WithLabelValues(m.Method).Inc()
	}
}

// ObserveReport records the aggregated outcome of a run.
func (r *Recorder) ObserveReport(rep *models.Report) {
	for _, u := range rep.Unified {
		r.unifiedScores.WithLabelValues(u.Category).Set(u.Score)
	}

	for _, g := range rep.Grades {
		r.categoryGPA.WithLabelValues(g.Category).Set(g.GPA)
	}

	if !rep.Overall.InsufficientData {
		r.overallGPA.Set(rep.Overall.GPA)
		r.weightCoverage.Set(rep.Overall.WeightCoverage)
	} else {
		r.registry.Unregister(r.overallGPA)
	}

	for _, rec := range rep.Recommendations {
		r.recommended.WithLabelValues(string(rec.Priority), string(rec.Source)).Inc()
	}
}

// Gatherer exposes the run's registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteToTextfile writes the run metrics to path, for node_exporter's
// textfile collector or any scraper reading the text format.
func (r *Recorder) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
