package models

import "time"

// Sample is one successfully scored evaluator call. Samples are created once
// and never mutated.
type Sample struct {
	Category  string    `json:"category"`
	Method    string    `json:"method"`
	Backend   string    `json:"backend"`
	Iteration int       `json:"iteration"`
	Score     float64   `json:"score"`
	RawText   string    `json:"raw_text"`
	Timestamp time.Time `json:"timestamp"`
}

// FailureReason explains why an evaluator call produced no sample.
type FailureReason string

const (
	// ReasonCallFailed means the backend returned an error, timed out or panicked.
	ReasonCallFailed FailureReason = "call_failed"
	// ReasonNoScore means the response contained nothing the extractor could parse.
	ReasonNoScore FailureReason = "no_score"
)

// SampleResult is the outcome of a single evaluator call: either a Sample, or
// an error with a reason. Exactly one of Sample and Err is set.
type SampleResult struct {
	Category  string
	Method    string
	Backend   string
	Iteration int

	Sample   *Sample
	Findings []Finding

	Err    error
	Reason FailureReason
}

// OK reports whether the call produced a sample.
func (r SampleResult) OK() bool {
	return r.Err == nil && r.Sample != nil
}

// SampleOK builds a successful result.
func SampleOK(s Sample, findings []Finding) SampleResult {
	return SampleResult{
		Category:  s.Category,
		Method:    s.Method,
		Backend:   s.Backend,
		Iteration: s.Iteration,
		Sample:    &s,
		Findings:  findings,
	}
}

// SampleErr builds a failed result.
func SampleErr(method, backend, category string, iteration int, reason FailureReason, err error) SampleResult {
	return SampleResult{
		Category:  category,
		Method:    method,
		Backend:   backend,
		Iteration: iteration,
		Err:       err,
		Reason:    reason,
	}
}

// Samples returns the successful samples, in order.
func Samples(results []SampleResult) []Sample {
	var out []Sample
	for _, r := range results {
		if r.OK() {
			out = append(out, *r.Sample)
		}
	}
	return out
}
