package evaluators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/spboyer/quorum/internal/models"
)

// defaultProgramTimeoutSeconds is the default timeout for program evaluators when none is specified.
const defaultProgramTimeoutSeconds = 30

// Environment variables handed to program evaluators.
const (
	EnvCategory            = "QUORUM_CATEGORY"
	EnvCategoryDescription = "QUORUM_CATEGORY_DESCRIPTION"
	EnvIteration           = "QUORUM_ITERATION"
	EnvMethod              = "QUORUM_METHOD"
)

// ProgramEvaluatorArgs holds the arguments for creating a program evaluator.
type ProgramEvaluatorArgs struct {
	// Name is the identifier for this evaluator, used in samples and error messages.
	Name string
	// Command is the analyzer to execute.
	Command string `mapstructure:"command"`
	// Args are the arguments to pass to the program.
	Args []string `mapstructure:"args"`
	// Timeout is the maximum execution time in seconds. Defaults to 30 if not set.
	Timeout int `mapstructure:"timeout"`
	// Dir is the working directory for the program.
	Dir string `mapstructure:"dir"`
}

// programEvaluator runs an external analyzer. The project context is passed
// via stdin and the category via QUORUM_* environment variables. Stdout is
// either a JSON object (see programOutput) or free text for the extractor.
// A non-zero exit is a failed call.
type programEvaluator struct {
	name    string
	command string
	args    []string
	dir     string
	timeout time.Duration
}

// programOutput is the structured form an analyzer can print.
type programOutput struct {
	Score           *float64         `json:"score"`
	Text            string           `json:"text"`
	Recommendations []models.Finding `json:"recommendations"`
}

// NewProgramEvaluator creates a [programEvaluator] that runs an external command.
func NewProgramEvaluator(args ProgramEvaluatorArgs) (*programEvaluator, error) {
	if args.Command == "" {
		return nil, fmt.Errorf("program evaluator '%s' must have a 'command'", args.Name)
	}

	timeout := args.Timeout
	if timeout <= 0 {
		timeout = defaultProgramTimeoutSeconds
	}

	return &programEvaluator{
		name:    args.Name,
		command: args.Command,
		args:    args.Args,
		dir:     args.Dir,
		timeout: time.Duration(timeout) * time.Second,
	}, nil
}

func (pe *programEvaluator) Name() string { return pe.name }
func (pe *programEvaluator) Kind() Kind   { return KindProgram }

// Start implements [Starter] by checking that the command resolves.
func (pe *programEvaluator) Start(ctx context.Context) error {
	if _, err := exec.LookPath(pe.command); err != nil {
		return fmt.Errorf("program evaluator '%s': %w", pe.name, err)
	}
	return nil
}

// Evaluate implements [Evaluator].
func (pe *programEvaluator) Evaluate(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request passed to program evaluator '%s'", pe.name)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, pe.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, pe.command, pe.args...)
	cmd.Dir = pe.dir
	cmd.Stdin = strings.NewReader(req.Context)
	cmd.Env = append(cmd.Environ(),
		EnvCategory+"="+req.Category.Name,
		EnvCategoryDescription+"="+req.Category.Description,
		EnvIteration+"="+strconv.Itoa(req.Iteration),
		EnvMethod+"="+req.Method,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errOutput := strings.TrimSpace(stderr.String()); errOutput != "" {
			return nil, fmt.Errorf("program exited with error: %w; stderr: %s", err, errOutput)
		}
		return nil, fmt.Errorf("program exited with error: %w", err)
	}

	return parseProgramOutput(strings.TrimSpace(stdout.String()), req.Category.Name), nil
}

func parseProgramOutput(out string, category string) *Response {
	if strings.HasPrefix(out, "{") {
		var parsed programOutput

		if err := json.Unmarshal([]byte(out), &parsed); err == nil {
			findings := make([]models.Finding, 0, len(parsed.Recommendations))

			for _, f := range parsed.Recommendations {
				p, err := models.ParsePriority(string(f.Priority))
				if err != nil || f.Issue == "" {
					continue
				}

				f.Priority = p
				if f.Category == "" {
					f.Category = category
				}
				findings = append(findings, f)
			}

			return &Response{
				Text:     parsed.Text,
				Score:    parsed.Score,
				Findings: findings,
			}
		}
	}

	return &Response{
		Text:     out,
		Findings: ParseFindings(out, category),
	}
}
