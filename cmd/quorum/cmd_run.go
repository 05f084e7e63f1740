package main

import (
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/spboyer/quorum/internal/config"
	"github.com/spboyer/quorum/internal/evaluators"
	"github.com/spboyer/quorum/internal/models"
	"github.com/spboyer/quorum/internal/orchestration"
	"github.com/spboyer/quorum/internal/projectconfig"
	"github.com/spboyer/quorum/internal/projectcontext"
	"github.com/spboyer/quorum/internal/reporting"
	"github.com/spboyer/quorum/internal/spinner"
	"github.com/spboyer/quorum/internal/telemetry"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// dryRunResponse is what every backend answers in a dry run.
const dryRunResponse = "Score: 7.5/10"

var (
	configPath    string
	iterations    int
	contextFile   string
	outputPath    string
	metricsPath   string
	minGPA        float64
	verbose       bool
	format        string
	methodFilters []string
	dryRun        bool
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Evaluate a project",
		Long: `Evaluate the project in dir (default: the current directory).

Every configured method samples each category --iterations times, rotating
through its backends. The samples are reduced per method, combined across
methods with renormalized weights, and graded on a 4.0 GPA scale.

Configuration is read from --config or from the nearest .quorum.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCommandE,
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default: nearest .quorum.yaml)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Sampling iterations per method and category (overrides config)")
	cmd.Flags().StringVar(&contextFile, "context-file", "", "Use this file verbatim as the project context instead of scanning dir")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the JSON report to this file (.gz to compress)")
	cmd.Flags().StringVar(&metricsPath, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	cmd.Flags().Float64Var(&minGPA, "min-gpa", 0, "Exit with code 1 if the overall GPA is below this value")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output with per-call progress")
	cmd.Flags().StringVar(&format, "format", "default", "Output format: default, json, markdown")
	cmd.Flags().StringArrayVar(&methodFilters, "method", nil, "Only run methods matching this name or glob pattern (can be repeated)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Replace every backend with a canned response")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	switch format {
	case "default", "json", "markdown":
	default:
		return fmt.Errorf("unknown format '%s': expected default, json or markdown", format)
	}

	cfg, err := loadProjectConfig(configPath, dir)
	if err != nil {
		return err
	}

	opts := []config.Option{
		config.WithIterations(iterations),
		config.WithVerbose(verbose),
		config.WithContextDir(dir),
	}
	if outputPath != "" {
		opts = append(opts, config.WithOutputPath(outputPath))
	}
	if metricsPath != "" {
		opts = append(opts, config.WithMetricsPath(metricsPath))
	}

	evalCfg, err := cfg.EvaluationConfig(opts...)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	methods, err := orchestration.FilterMethods(buildMethods(cfg, dir, dryRun), methodFilters)
	if err != nil {
		return err
	}
	if len(methods) == 0 {
		return fmt.Errorf("no methods match %v", methodFilters)
	}

	var src orchestration.ContextSource = projectcontext.DirSource{Dir: dir}
	if contextFile != "" {
		src = projectcontext.FileSource{Path: contextFile}
	}

	var runnerOpts []orchestration.RunnerOption

	var recorder *telemetry.Recorder
	if evalCfg.MetricsPath() != "" {
		recorder = telemetry.NewRecorder()
		runnerOpts = append(runnerOpts, orchestration.WithRecorder(recorder))
	}

	runner := orchestration.NewRunner(evalCfg, methods, runnerOpts...)

	out := cmd.OutOrStdout()

	var stopProgress func()
	if format == "default" {
		stopProgress = attachProgress(runner, cmd.ErrOrStderr(), evalCfg, len(methods))
	}

	report := runner.Run(cmd.Context(), src)

	if stopProgress != nil {
		stopProgress()
	}

	switch format {
	case "json":
		if err := reporting.WriteJSON(out, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	case "markdown":
		fmt.Fprint(out, reporting.FormatMarkdown(report)) //nolint:errcheck
	default:
		printReport(out, report)
		if verbose {
			fmt.Fprintln(out)                                      //nolint:errcheck
			fmt.Fprint(out, reporting.FormatSummaryReport(report)) //nolint:errcheck
		}
	}

	if path := evalCfg.OutputPath(); path != "" {
		if err := reporting.WriteFile(path, report); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to: %s\n", path) //nolint:errcheck
	}

	if recorder != nil {
		if err := recorder.WriteToTextfile(evalCfg.MetricsPath()); err != nil {
			return err
		}
	}

	return checkMinGPA(cmd, report)
}

func checkMinGPA(cmd *cobra.Command, report *models.Report) error {
	if !cmd.Flags().Changed("min-gpa") {
		return nil
	}

	if report.Overall.InsufficientData {
		return &GradeFailureError{Message: "no category could be graded, cannot meet --min-gpa"}
	}

	if report.Overall.GPA < minGPA {
		return &GradeFailureError{
			Message: fmt.Sprintf("overall GPA %.2f (%s) is below the minimum of %.2f", report.Overall.GPA, report.Overall.LetterGrade, minGPA),
		}
	}

	return nil
}

// buildMethods turns the configured methods into runnable ones. A backend that
// cannot be built marks its whole method as failed rather than aborting.
func buildMethods(cfg *projectconfig.ProjectConfig, dir string, dry bool) []orchestration.Method {
	methods := make([]orchestration.Method, 0, len(cfg.Methods))

	for _, mc := range cfg.Methods {
		m := orchestration.Method{Name: mc.Name}

		for _, bc := range mc.Backends {
			if dry {
				m.Backends = append(m.Backends, evaluators.NewStaticEvaluator(bc.Name, evaluators.StaticEvaluatorArgs{Default: dryRunResponse}))
				continue
			}

			params := maps.Clone(bc.Config)
			if bc.Type == evaluators.KindProgram {
				if params == nil {
					params = map[string]any{}
				}
				if _, ok := params["dir"]; !ok {
					params["dir"] = dir
				}
			}

			ev, err := evaluators.Create(bc.Type, bc.Name, params)
			if err != nil {
				m.Err = err
				m.Backends = nil
				break
			}
			m.Backends = append(m.Backends, ev)
		}

		methods = append(methods, m)
	}

	return methods
}

// attachProgress registers a progress listener on the runner and returns a
// function that stops it.
func attachProgress(runner *orchestration.Runner, w io.Writer, cfg *config.EvaluationConfig, methods int) func() {
	if verbose {
		runner.OnProgress(verboseProgressListener(w))
		return nil
	}

	if !isTerminal(w) {
		return nil
	}

	total := cfg.Iterations() * cfg.Registry().Len() * methods
	done := 0

	s := spinner.Start(w, "Gathering project context...")

	runner.OnProgress(func(event orchestration.ProgressEvent) {
		switch event.EventType {
		case orchestration.EventPhase:
			switch event.Phase {
			case models.PhaseRunningMethods:
				s.Update(fmt.Sprintf("Running %d method(s)...", methods))
			case models.PhaseAggregating:
				s.Update("Aggregating...")
			}
		case orchestration.EventSample:
			done++
			s.Update(fmt.Sprintf("Sampling %d/%d calls...", done, total))
		}
	})

	return s.Stop
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func verboseProgressListener(w io.Writer) orchestration.ProgressListener {
	return func(event orchestration.ProgressEvent) {
		switch event.EventType {
		case orchestration.EventPhase:
			fmt.Fprintf(w, "==> %s\n", event.Phase) //nolint:errcheck
		case orchestration.EventMethodStart:
			fmt.Fprintf(w, "[%s] starting\n", event.Method) //nolint:errcheck
		case orchestration.EventSample:
			res := event.Result
			prefix := fmt.Sprintf("[%s %d/%d] %s #%d via %s:", event.Method, event.Call, event.TotalCalls, res.Category, res.Iteration, res.Backend)
			if res.OK() {
				fmt.Fprintf(w, "%s %.2f\n", prefix, res.Sample.Score) //nolint:errcheck
			} else {
				fmt.Fprintf(w, "%s %s (%v)\n", prefix, res.Reason, res.Err) //nolint:errcheck
			}
		case orchestration.EventMethodComplete:
			m := event.MethodResult
			if m.Failed() {
				fmt.Fprintf(w, "[%s] failed: %s\n", m.Method, m.Error) //nolint:errcheck
			} else {
				fmt.Fprintf(w, "[%s] done: %d samples in %s\n", m.Method, len(m.Samples), reporting.FormatDuration(msDuration(m.DurationMs))) //nolint:errcheck
			}
		case orchestration.EventRunComplete:
			fmt.Fprintf(w, "Evaluation completed in %s\n\n", reporting.FormatDuration(msDuration(event.DurationMs))) //nolint:errcheck
		}
	}
}
