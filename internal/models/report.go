package models

import "time"

// Phase is a state of the evaluation run.
type Phase string

const (
	PhaseGatheringContext Phase = "gathering_context"
	PhaseRunningMethods   Phase = "running_methods"
	PhaseAggregating      Phase = "aggregating"
	PhaseComplete         Phase = "complete"
)

// PhaseTransition records when the run entered a phase.
type PhaseTransition struct {
	Phase     Phase     `json:"phase"`
	EnteredAt time.Time `json:"entered_at"`
}

// MethodStatus is the terminal state of one evaluation method.
type MethodStatus string

const (
	MethodStatusOK     MethodStatus = "ok"
	MethodStatusFailed MethodStatus = "failed"
)

// MethodResult is everything one evaluation method produced during a run.
type MethodResult struct {
	Method string       `json:"method"`
	Weight float64      `json:"weight"`
	Status MethodStatus `json:"status"`

	// Error is set when the whole method was unavailable. A failed method
	// contributes no categories to the combiner.
	Error string `json:"error,omitempty"`

	Backends           []string          `json:"backends,omitempty"`
	Samples            []Sample          `json:"samples"`
	Consensus          []MethodConsensus `json:"consensus"`
	Findings           []Finding         `json:"findings,omitempty"`
	Calls              int               `json:"calls"`
	CallFailures       int               `json:"call_failures"`
	ExtractionFailures int               `json:"extraction_failures"`
	DurationMs         int64             `json:"duration_ms"`
}

// Failed reports whether the method as a whole failed.
func (m MethodResult) Failed() bool {
	return m.Status == MethodStatusFailed
}

// Report is the terminal structured result of an evaluation run.
type Report struct {
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	Iterations int       `json:"iterations"`

	// ContextDigest is a short summary of the context bundle handed to the
	// evaluators; the full bundle is not kept.
	ContextDigest string `json:"context_digest,omitempty"`

	Phases          []PhaseTransition `json:"phases"`
	Methods         []MethodResult    `json:"methods"`
	Samples         []Sample          `json:"samples"`
	Unified         []UnifiedScore    `json:"unified_scores"`
	Grades          []GradeResult     `json:"grades"`
	Overall         GradeResult       `json:"overall"`
	Recommendations []Recommendation  `json:"recommendations"`
	Errors          []string          `json:"errors,omitempty"`
	DurationMs      int64             `json:"duration_ms"`
}

// FailedMethods returns the names of methods that failed entirely.
func (r *Report) FailedMethods() []string {
	var names []string
	for _, m := range r.Methods {
		if m.Failed() {
			names = append(names, m.Method)
		}
	}
	return names
}
