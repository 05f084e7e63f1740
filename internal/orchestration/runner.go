package orchestration

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spboyer/quorum/internal/config"
	"github.com/spboyer/quorum/internal/consensus"
	"github.com/spboyer/quorum/internal/evaluators"
	"github.com/spboyer/quorum/internal/grading"
	"github.com/spboyer/quorum/internal/models"
	"github.com/spboyer/quorum/internal/recommend"
	"github.com/spboyer/quorum/internal/sampling"
	"github.com/spboyer/quorum/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// ContextSource produces the project context handed to every evaluator.
type ContextSource interface {
	Gather(ctx context.Context) (string, error)
}

// Method is one evaluation method: a name and the backends it rotates through.
type Method struct {
	Name     string
	Backends []evaluators.Evaluator

	// Err marks a method that could not be built. It is reported as failed
	// without running.
	Err error
}

// Runner drives one evaluation run through its phases:
// gathering context, running every method concurrently, then aggregating.
type Runner struct {
	cfg      *config.EvaluationConfig
	methods  []Method
	engine   *recommend.Engine
	recorder *telemetry.Recorder
	now      func() time.Time

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
	deliverMu  sync.Mutex
}

// ProgressListener receives progress updates. Deliveries are serialized, so
// a listener never runs concurrently with itself.
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventPhase          EventType = "phase"
	EventMethodStart    EventType = "method_start"
	EventMethodComplete EventType = "method_complete"
	EventSample         EventType = "sample"
	EventRunComplete    EventType = "run_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType EventType
	Phase     models.Phase
	Method    string

	// Call is set on EventSample, counting from 1 up to TotalCalls for the method.
	Call       int
	TotalCalls int
	Result     *models.SampleResult

	// MethodResult is set on EventMethodComplete.
	MethodResult *models.MethodResult

	DurationMs int64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRecorder records run metrics.
func WithRecorder(rec *telemetry.Recorder) RunnerOption {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// WithRecommendationEngine overrides the recommendation cut-offs.
func WithRecommendationEngine(e *recommend.Engine) RunnerOption {
	return func(r *Runner) {
		r.engine = e
	}
}

// NewRunner creates a runner over the configured methods, in report order.
func NewRunner(cfg *config.EvaluationConfig, methods []Method, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:       cfg,
		methods:   methods,
		engine:    recommend.NewEngine(),
		now:       time.Now,
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	r.deliverMu.Lock()
	defer r.deliverMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Run executes the evaluation and always returns a report. Failures of the
// context source, of single calls or of whole methods degrade the report and
// are listed in it; none of them abort the run.
func (r *Runner) Run(ctx context.Context, src ContextSource) *models.Report {
	start := r.now()

	report := &models.Report{
		RunID:      uuid.NewString(),
		Timestamp:  start,
		Iterations: r.cfg.Iterations(),
	}

	// GATHERING_CONTEXT
	r.enter(report, models.PhaseGatheringContext)
	projectContext := r.gatherContext(ctx, src, report)

	// RUNNING_METHODS
	r.enter(report, models.PhaseRunningMethods)
	report.Methods = r.runMethods(ctx, projectContext)

	for _, m := range report.Methods {
		report.Samples = append(report.Samples, m.Samples...)
		if m.Failed() {
			report.Errors = append(report.Errors, fmt.Sprintf("method '%s' failed: %s", m.Method, m.Error))
		}
	}

	// AGGREGATING
	r.enter(report, models.PhaseAggregating)
	r.aggregate(report)

	r.enter(report, models.PhaseComplete)
	report.DurationMs = r.now().Sub(start).Milliseconds()

	if r.recorder != nil {
		r.recorder.ObserveReport(report)
	}

	r.notifyProgress(ProgressEvent{
		EventType:  EventRunComplete,
		Phase:      models.PhaseComplete,
		DurationMs: report.DurationMs,
	})

	return report
}

func (r *Runner) enter(report *models.Report, phase models.Phase) {
	report.Phases = append(report.Phases, models.PhaseTransition{Phase: phase, EnteredAt: r.now()})
	slog.Debug("Entering phase", "phase", phase, "run", report.RunID)
	r.notifyProgress(ProgressEvent{EventType: EventPhase, Phase: phase})
}

func (r *Runner) gatherContext(ctx context.Context, src ContextSource, report *models.Report) string {
	if src == nil {
		return ""
	}

	projectContext, err := src.Gather(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to gather project context, continuing without it", "error", err)
		report.Errors = append(report.Errors, fmt.Sprintf("gathering context: %s", err))
		return ""
	}

	report.ContextDigest = digest(projectContext)
	return projectContext
}

// runMethods starts every method in its own goroutine and waits for all of
// them, successes and failures alike, before returning.
func (r *Runner) runMethods(ctx context.Context, projectContext string) []models.MethodResult {
	results := make([]models.MethodResult, len(r.methods))

	var g errgroup.Group

	for i, m := range r.methods {
		g.Go(func() error {
			results[i] = r.runMethod(ctx, m, projectContext)
			return nil
		})
	}

	// runMethod captures its own failures, so Wait is only the barrier
	_ = g.Wait()

	return results
}

func (r *Runner) runMethod(ctx context.Context, m Method, projectContext string) (result models.MethodResult) {
	start := r.now()
	weight, weighted := r.cfg.MethodWeight(m.Name)

	result = models.MethodResult{
		Method: m.Name,
		Weight: weight,
		Status: models.MethodStatusOK,
	}

	r.notifyProgress(ProgressEvent{EventType: EventMethodStart, Method: m.Name})

	fail := func(err error) {
		slog.ErrorContext(ctx, "Evaluation method failed", "method", m.Name, "error", err)
		result.Status = models.MethodStatusFailed
		result.Error = err.Error()
		result.Consensus = nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			fail(fmt.Errorf("method panicked: %v", rec))
		}

		result.DurationMs = r.now().Sub(start).Milliseconds()

		if r.recorder != nil {
			r.recorder.ObserveMethod(result)
		}

		r.notifyProgress(ProgressEvent{
			EventType:    EventMethodComplete,
			Method:       m.Name,
			MethodResult: &result,
			DurationMs:   result.DurationMs,
		})
	}()

	if m.Err != nil {
		fail(m.Err)
		return result
	}

	if !weighted || weight <= 0 {
		fail(fmt.Errorf("method '%s' has no positive weight configured", m.Name))
		return result
	}

	selector, err := sampling.Prepare(ctx, m.Name, m.Backends)
	if err != nil {
		fail(err)
		return result
	}

	defer func() {
		if err := selector.Stop(); err != nil {
			slog.WarnContext(ctx, "Failed to stop backends", "method", m.Name, "error", err)
		}
	}()

	result.Backends = selector.Names()

	registry := r.cfg.Registry()
	call := 0

	sampler := sampling.New(m.Name, registry, r.cfg.Iterations(),
		sampling.WithCallTimeout(r.cfg.CallTimeout()),
		sampling.WithClock(r.now),
		sampling.WithResultListener(func(res models.SampleResult) {
			call++
			if r.recorder != nil {
				r.recorder.ObserveSample(res)
			}
			r.notifyProgress(ProgressEvent{
				EventType:  EventSample,
				Method:     m.Name,
				Call:       call,
				TotalCalls: r.cfg.Iterations() * registry.Len(),
				Result:     &res,
			})
		}),
	)

	results := sampler.Sample(ctx, selector, projectContext)

	for _, res := range results {
		result.Calls++
		result.Findings = append(result.Findings, res.Findings...)

		switch {
		case res.OK():
			result.Samples = append(result.Samples, *res.Sample)
		case res.Reason == models.ReasonNoScore:
			result.ExtractionFailures++
		default:
			result.CallFailures++
		}
	}

	result.Consensus = consensus.Calculate(m.Name, registry, results)

	return result
}

func (r *Runner) aggregate(report *models.Report) {
	registry := r.cfg.Registry()

	report.Unified = consensus.Combine(registry, r.cfg.MethodWeights(), report.Methods)
	report.Grades = grading.Grade(registry, report.Unified)
	report.Overall = grading.Overall(registry, report.Grades)
	report.Recommendations = r.engine.Recommend(recommend.Input{
		Registry: registry,
		Grades:   report.Grades,
		Unified:  report.Unified,
		Methods:  report.Methods,
	})

	if report.Overall.InsufficientData {
		slog.Warn("No category could be graded", "run", report.RunID)
	}
}

// digest identifies a context bundle without storing it.
func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return fmt.Sprintf("sha256:%x (%d bytes)", sum[:6], len(s))
}
