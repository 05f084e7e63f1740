package evaluators

import (
	"context"
)

type StaticEvaluatorArgs struct {
	// Responses maps a category name to the text returned for it.
	Responses map[string]string `mapstructure:"responses"`
	// Default is returned for categories not in Responses.
	Default string `mapstructure:"default"`
}

// staticEvaluator returns canned text per category. It never fails, which
// makes it the backend for dry runs.
type staticEvaluator struct {
	name string
	args StaticEvaluatorArgs
}

func NewStaticEvaluator(name string, args StaticEvaluatorArgs) *staticEvaluator {
	return &staticEvaluator{name: name, args: args}
}

func (s *staticEvaluator) Name() string { return s.name }
func (s *staticEvaluator) Kind() Kind   { return KindStatic }

func (s *staticEvaluator) Evaluate(ctx context.Context, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, ok := s.args.Responses[req.Category.Name]
	if !ok {
		text = s.args.Default
	}

	return &Response{
		Text:     text,
		Findings: ParseFindings(text, req.Category.Name),
	}, nil
}
