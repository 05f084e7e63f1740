// Package sampling drives repeated evaluator calls for one method across
// every registered category.
package sampling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spboyer/quorum/internal/evaluators"
	"github.com/spboyer/quorum/internal/extract"
	"github.com/spboyer/quorum/internal/models"
)

// DefaultCallTimeout bounds a single evaluator call.
const DefaultCallTimeout = 60 * time.Second

var (
	// ErrNoScore means the evaluator answered but no score could be extracted.
	ErrNoScore = errors.New("no score found in response")

	// ErrNoResponse means the evaluator returned neither a response nor an error.
	ErrNoResponse = errors.New("evaluator returned no response")
)

// ResultListener is notified after every call, in call order.
type ResultListener func(result models.SampleResult)

// Sampler runs one method's backends over every (iteration, category) pair.
type Sampler struct {
	method      string
	registry    *models.Registry
	iterations  int
	callTimeout time.Duration
	now         func() time.Time
	listener    ResultListener
}

type Option func(s *Sampler)

// WithCallTimeout sets the per-call timeout. Non-positive values keep the default.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Sampler) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

// WithClock overrides the clock used for sample timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Sampler) {
		s.now = now
	}
}

// WithResultListener registers a callback for every call result.
func WithResultListener(l ResultListener) Option {
	return func(s *Sampler) {
		s.listener = l
	}
}

func New(method string, registry *models.Registry, iterations int, opts ...Option) *Sampler {
	s := &Sampler{
		method:      method,
		registry:    registry,
		iterations:  iterations,
		callTimeout: DefaultCallTimeout,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Calls is the number of evaluator calls a full run makes.
func (s *Sampler) Calls() int {
	return s.iterations * s.registry.Len()
}

// Sample calls the selected backend once per (iteration, category), iteration
// outermost, and returns one result per call. Call failures never abort the
// run; they are recorded in the returned results.
func (s *Sampler) Sample(ctx context.Context, selector *Selector, projectContext string) []models.SampleResult {
	results := make([]models.SampleResult, 0, s.Calls())
	categories := s.registry.Categories()

	for iteration := range s.iterations {
		backend := selector.Pick(iteration)

		for _, category := range categories {
			result := s.call(ctx, backend, category, iteration, projectContext)
			s.log(ctx, result)

			if s.listener != nil {
				s.listener(result)
			}

			results = append(results, result)
		}
	}

	return results
}

type callOutcome struct {
	resp *evaluators.Response
	err  error
}

func (s *Sampler) call(ctx context.Context, backend evaluators.Evaluator, category models.Category, iteration int, projectContext string) models.SampleResult {
	fail := func(reason models.FailureReason, err error) models.SampleResult {
		return models.SampleErr(s.method, backend.Name(), category.Name, iteration, reason, err)
	}

	if err := ctx.Err(); err != nil {
		return fail(models.ReasonCallFailed, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	done := make(chan callOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- callOutcome{err: fmt.Errorf("evaluator panicked: %v", r)}
			}
		}()

		resp, err := backend.Evaluate(callCtx, &evaluators.Request{
			Method:    s.method,
			Category:  category,
			Context:   projectContext,
			Iteration: iteration,
		})
		done <- callOutcome{resp: resp, err: err}
	}()

	var outcome callOutcome

	select {
	case outcome = <-done:
	case <-callCtx.Done():
		// a response arriving after the deadline is dropped
		return fail(models.ReasonCallFailed, fmt.Errorf("evaluator call timed out after %s: %w", s.callTimeout, callCtx.Err()))
	}

	if outcome.err != nil {
		return fail(models.ReasonCallFailed, outcome.err)
	}

	if outcome.resp == nil {
		return fail(models.ReasonCallFailed, ErrNoResponse)
	}

	var (
		score float64
		ok    bool
	)

	if outcome.resp.Score != nil {
		score, ok = extract.Normalize(*outcome.resp.Score)
	} else {
		score, ok = extract.Score(outcome.resp.Text)
	}

	if !ok {
		result := fail(models.ReasonNoScore, ErrNoScore)
		result.Findings = outcome.resp.Findings
		return result
	}

	return models.SampleOK(models.Sample{
		Category:  category.Name,
		Method:    s.method,
		Backend:   backend.Name(),
		Iteration: iteration,
		Score:     score,
		RawText:   outcome.resp.Text,
		Timestamp: s.now(),
	}, outcome.resp.Findings)
}

func (s *Sampler) log(ctx context.Context, r models.SampleResult) {
	attrs := []any{
		"method", r.Method,
		"backend", r.Backend,
		"category", r.Category,
		"iteration", r.Iteration,
	}

	switch {
	case r.OK():
		slog.DebugContext(ctx, "Sample recorded", append(attrs, "score", r.Sample.Score)...)
	case r.Reason == models.ReasonNoScore:
		slog.DebugContext(ctx, "No score in evaluator response", attrs...)
	default:
		slog.WarnContext(ctx, "Evaluator call failed", append(attrs, "error", r.Err)...)
	}
}
