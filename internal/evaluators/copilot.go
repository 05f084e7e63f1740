package evaluators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	copilot "github.com/github/copilot-sdk/go"
	"github.com/spboyer/quorum/internal/template"
	"github.com/spboyer/quorum/internal/utils"
)

// DefaultJudgePrompt is used when a copilot evaluator has no 'prompt'.
const DefaultJudgePrompt = `You are reviewing a software project for the quality category "{{.Category}}".
{{if .Description}}Category description: {{.Description}}
{{end}}
Thresholds: excellent >= {{pct .Excellent}}, good >= {{pct .Good}}, acceptable >= {{pct .Acceptable}}, poor >= {{pct .Poor}}.

Project context:
{{.Project}}

Answer with a single line of the form "Score: N/10" where N is your rating for this category.
You may follow it with any number of lines of the form
"RECOMMENDATION [CRITICAL|HIGH|MEDIUM|LOW]: <issue> => <action>".`

type CopilotJudgeArgs struct {
	Model  string `mapstructure:"model"`
	Prompt string `mapstructure:"prompt"`
}

type CopilotJudgeOptions struct {
	NewCopilotClient func(clientOptions *copilot.ClientOptions) copilotClient
}

// copilotJudge is an LLM-as-judge evaluator. It owns one copilot client and
// opens a fresh session for every call, so samples stay independent.
type copilotJudge struct {
	name   string
	args   CopilotJudgeArgs
	client copilotClient

	startOnce sync.Once
	startErr  error
}

func NewCopilotJudge(name string, args CopilotJudgeArgs, options *CopilotJudgeOptions) (*copilotJudge, error) {
	if name == "" {
		return nil, errors.New("missing name")
	}

	if args.Prompt == "" {
		args.Prompt = DefaultJudgePrompt
	}

	// catch template mistakes at config time rather than on the first call
	if _, err := template.Render(args.Prompt, &template.Context{}); err != nil {
		return nil, fmt.Errorf("copilot evaluator '%s': invalid prompt: %w", name, err)
	}

	clientOptions := &copilot.ClientOptions{
		LogLevel:        "error",
		AutoStart:       copilot.Bool(false),
		UseLoggedInUser: copilot.Bool(true),
	}

	var client copilotClient

	if options == nil || options.NewCopilotClient == nil {
		client = newCopilotClient(clientOptions)
	} else {
		client = options.NewCopilotClient(clientOptions)
	}

	return &copilotJudge{
		name:   name,
		args:   args,
		client: client,
	}, nil
}

func (j *copilotJudge) Name() string { return j.name }
func (j *copilotJudge) Kind() Kind   { return KindCopilot }

// Start implements [Starter].
func (j *copilotJudge) Start(ctx context.Context) error {
	// copilot's own autostart is unreliable when it races between goroutines
	j.startOnce.Do(func() {
		if err := j.client.Start(ctx); err != nil {
			j.startErr = fmt.Errorf("copilot failed to start: %w", err)
		}
	})
	return j.startErr
}

// Stop implements [Stopper].
func (j *copilotJudge) Stop() error {
	return j.client.Stop()
}

// Evaluate implements [Evaluator].
func (j *copilotJudge) Evaluate(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil request passed to copilot evaluator")
	}

	if err := j.Start(ctx); err != nil {
		return nil, err
	}

	prompt, err := template.Render(j.args.Prompt, &template.Context{
		Method:      req.Method,
		Category:    req.Category.Name,
		Description: req.Category.Description,
		Iteration:   req.Iteration,
		Excellent:   req.Category.Thresholds.Excellent,
		Good:        req.Category.Thresholds.Good,
		Acceptable:  req.Category.Thresholds.Acceptable,
		Poor:        req.Category.Thresholds.Poor,
		Project:     req.Context,
	})
	if err != nil {
		return nil, err
	}

	session, err := j.client.CreateSession(ctx, &copilot.SessionConfig{
		Model:               j.args.Model,
		Streaming:           true,
		OnPermissionRequest: allowAllTools,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create copilot session: %w", err)
	}

	unregister := session.On(utils.SessionLogger(
		"evaluator", j.name,
		"category", req.Category.Name,
		"iteration", req.Iteration,
		"session", session.SessionID(),
	))
	defer unregister()

	resp, err := session.SendAndWait(ctx, copilot.MessageOptions{
		Prompt: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send prompt: %w", err)
	}

	var text string

	if resp != nil && resp.Data.Content != nil {
		text = *resp.Data.Content
	} else {
		slog.DebugContext(ctx, "Judge returned no content", "evaluator", j.name, "category", req.Category.Name)
	}

	return &Response{
		Text:     text,
		Findings: ParseFindings(text, req.Category.Name),
	}, nil
}

func allowAllTools(request copilot.PermissionRequest, invocation copilot.PermissionInvocation) (copilot.PermissionRequestResult, error) {
	// value for 'Kind' came from the permissions_test.go in the Copilot SDK.
	return copilot.PermissionRequestResult{Kind: "approved"}, nil
}
