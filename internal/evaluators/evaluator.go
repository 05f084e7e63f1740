package evaluators

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spboyer/quorum/internal/models"
)

//go:generate go tool mockgen -package evaluators -destination mock_evaluator.go . Evaluator

type Kind string

const (
	// KindCopilot asks an LLM judge, through the Copilot SDK, to score the category.
	KindCopilot Kind = "copilot"

	// KindProgram runs an external analyzer process.
	KindProgram Kind = "program"

	// KindStatic returns canned responses. Used for dry runs.
	KindStatic Kind = "static"
)

// Evaluator is one backend of an evaluation method. Evaluate is called once
// per (iteration, category) pair and must be safe to call from the goroutine
// of the owning method.
type Evaluator interface {
	// Name returns the backend name, used in samples and logs
	Name() string

	// Kind returns the backend type
	Kind() Kind

	// Evaluate scores a single category against the project context.
	Evaluate(ctx context.Context, req *Request) (*Response, error)
}

// Starter is implemented by evaluators that need to be brought up before
// their first call. A backend whose Start fails is taken out of rotation.
type Starter interface {
	Start(ctx context.Context) error
}

// Stopper is implemented by evaluators holding resources.
type Stopper interface {
	Stop() error
}

// Request is a single evaluator call.
type Request struct {
	Method    string
	Category  models.Category
	Context   string
	Iteration int
}

// Response is what an evaluator returned. When Score is set it is used
// directly (after normalization); otherwise the score is extracted from Text.
type Response struct {
	Text     string
	Score    *float64
	Findings []models.Finding
}

// Create builds an evaluator from its configured type and raw params.
func Create(kind Kind, name string, params map[string]any) (Evaluator, error) {
	switch kind {
	case KindCopilot:
		var args CopilotJudgeArgs

		if err := mapstructure.Decode(params, &args); err != nil {
			return nil, fmt.Errorf("evaluator '%s': %w", name, err)
		}

		return NewCopilotJudge(name, args, nil)
	case KindProgram:
		args := ProgramEvaluatorArgs{Name: name}

		if err := mapstructure.Decode(params, &args); err != nil {
			return nil, fmt.Errorf("evaluator '%s': %w", name, err)
		}

		return NewProgramEvaluator(args)
	case KindStatic:
		var args StaticEvaluatorArgs

		if err := mapstructure.Decode(params, &args); err != nil {
			return nil, fmt.Errorf("evaluator '%s': %w", name, err)
		}

		return NewStaticEvaluator(name, args), nil
	default:
		return nil, fmt.Errorf("'%s' is not a valid evaluator type", kind)
	}
}

// Kinds lists every evaluator type Create understands.
func Kinds() []Kind {
	return []Kind{KindCopilot, KindProgram, KindStatic}
}
