// Package projectconfig provides the ProjectConfig struct and loader for
// .quorum.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spboyer/quorum/internal/config"
	"github.com/spboyer/quorum/internal/evaluators"
	"github.com/spboyer/quorum/internal/models"
	"github.com/spboyer/quorum/internal/utils"
	"gopkg.in/yaml.v3"
)

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultIterations         = config.DefaultIterations
	DefaultCallTimeoutSeconds = 60

	DefaultJudgeModel     = "claude-sonnet-4.6"
	DefaultGraphCommand   = "quorum-graph"
	DefaultStructCommand  = "quorum-structure"
	DefaultProgramTimeout = 60
)

// Method names of the default weight table.
const (
	MethodLLMJudge   = "llm-judge"
	MethodGraph      = "graph-analysis"
	MethodStructural = "structural-analysis"
)

// FileNames are the names searched for, in order, in every directory.
var FileNames = []string{".quorum.yaml", ".quorum.yml"}

// BackendConfig is one evaluator backend of a method.
type BackendConfig struct {
	Type   evaluators.Kind `yaml:"type"`
	Name   string          `yaml:"name"`
	Config map[string]any  `yaml:"config,omitempty"`
}

// MethodConfig is one evaluation method and its nominal weight.
type MethodConfig struct {
	Name     string          `yaml:"name"`
	Weight   float64         `yaml:"weight"`
	Backends []BackendConfig `yaml:"backends"`
}

// OutputConfig holds report sink settings.
type OutputConfig struct {
	Path        string `yaml:"path,omitempty"`
	MetricsPath string `yaml:"metrics_path,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .quorum.yaml.
type ProjectConfig struct {
	Iterations         int               `yaml:"iterations,omitempty"`
	CallTimeoutSeconds int               `yaml:"call_timeout_seconds,omitempty"`
	Categories         []models.Category `yaml:"categories,omitempty"`
	Methods            []MethodConfig    `yaml:"methods,omitempty"`
	Output             OutputConfig      `yaml:"output,omitempty"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `yaml:"-"`
}

func thresholds(excellent, good, acceptable, poor float64) models.Thresholds {
	return models.Thresholds{Excellent: excellent, Good: good, Acceptable: acceptable, Poor: poor}
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Iterations:         DefaultIterations,
		CallTimeoutSeconds: DefaultCallTimeoutSeconds,
		Categories: []models.Category{
			{Name: "completeness", OverallWeight: 0.20, Description: "Features described by the project are implemented end to end", Thresholds: thresholds(0.90, 0.80, 0.70, 0.50)},
			{Name: "correctness", OverallWeight: 0.20, Description: "The code does what it claims without defects", Thresholds: thresholds(0.90, 0.80, 0.70, 0.50)},
			{Name: "security", OverallWeight: 0.15, Description: "Inputs are validated, secrets are protected, dependencies are sound", Thresholds: thresholds(0.95, 0.85, 0.75, 0.60)},
			{Name: "maintainability", OverallWeight: 0.15, Description: "Structure, naming and coupling make the code easy to change", Thresholds: thresholds(0.90, 0.80, 0.70, 0.50)},
			{Name: "testing", OverallWeight: 0.15, Description: "Automated tests cover the important behavior", Thresholds: thresholds(0.90, 0.75, 0.60, 0.40)},
			{Name: "documentation", OverallWeight: 0.10, Description: "Users and contributors can find what they need", Thresholds: thresholds(0.90, 0.75, 0.60, 0.40)},
			{Name: "performance", OverallWeight: 0.05, Description: "No obvious hot spots or wasteful resource use", Thresholds: thresholds(0.90, 0.75, 0.60, 0.40)},
		},
		Methods: []MethodConfig{
			{
				Name:   MethodLLMJudge,
				Weight: 0.40,
				Backends: []BackendConfig{
					{Type: evaluators.KindCopilot, Name: "copilot-judge", Config: map[string]any{"model": DefaultJudgeModel}},
				},
			},
			{
				Name:   MethodGraph,
				Weight: 0.30,
				Backends: []BackendConfig{
					{Type: evaluators.KindProgram, Name: DefaultGraphCommand, Config: map[string]any{"command": DefaultGraphCommand, "timeout": DefaultProgramTimeout}},
				},
			},
			{
				Name:   MethodStructural,
				Weight: 0.30,
				Backends: []BackendConfig{
					{Type: evaluators.KindProgram, Name: DefaultStructCommand, Config: map[string]any{"command": DefaultStructCommand, "timeout": DefaultProgramTimeout}},
				},
			},
		},
	}
}

// Load finds .quorum.yaml (or .quorum.yml) by walking up from startDir (max
// 10 levels), unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return parse(path, data)
}

// LoadFile loads an explicit config file. Unlike Load, a missing file is an error.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return parse(path, data)
}

func parse(path string, data []byte) (*ProjectConfig, error) {
	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := New()
	mergeConfig(cfg, &fileCfg)
	cfg.Path = path

	return cfg, nil
}

// findConfigFile walks up from dir looking for a config file (max 10 levels).
// Returns os.ErrNotExist if no config file is found.
func findConfigFile(dir string) (string, []byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		for _, name := range FileNames {
			p := filepath.Join(dir, name)
			data, err := os.ReadFile(p)
			if err == nil {
				return p, data, nil
			}
			if !errors.Is(err, os.ErrNotExist) {
				return "", nil, fmt.Errorf("reading %q: %w", p, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst. Slices replace
// the defaults wholesale.
func mergeConfig(dst, src *ProjectConfig) {
	if src.Iterations != 0 {
		dst.Iterations = src.Iterations
	}
	if src.CallTimeoutSeconds != 0 {
		dst.CallTimeoutSeconds = src.CallTimeoutSeconds
	}
	if len(src.Categories) > 0 {
		dst.Categories = src.Categories
	}
	if len(src.Methods) > 0 {
		dst.Methods = src.Methods
	}
	if src.Output.Path != "" {
		dst.Output.Path = src.Output.Path
	}
	if src.Output.MetricsPath != "" {
		dst.Output.MetricsPath = src.Output.MetricsPath
	}
}

// Registry builds the immutable category registry.
func (c *ProjectConfig) Registry() (*models.Registry, error) {
	return models.NewRegistry(c.Categories...)
}

// MethodWeights returns the nominal method weight table.
func (c *ProjectConfig) MethodWeights() map[string]float64 {
	weights := make(map[string]float64, len(c.Methods))
	for _, m := range c.Methods {
		weights[m.Name] = m.Weight
	}
	return weights
}

// CallTimeout returns the per-call timeout as a duration.
func (c *ProjectConfig) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

// Validate checks the semantic rules a schema cannot express. Every problem
// is reported, joined into one error.
func (c *ProjectConfig) Validate() error {
	var errs []error

	if c.Iterations < 1 {
		errs = append(errs, fmt.Errorf("iterations must be at least 1, got %d", c.Iterations))
	}
	if c.CallTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("call_timeout_seconds must be at least 1, got %d", c.CallTimeoutSeconds))
	}

	if _, err := c.Registry(); err != nil {
		errs = append(errs, err)
	}

	if len(c.Methods) == 0 {
		errs = append(errs, errors.New("at least one method must be configured"))
	}

	methods := map[string]bool{}

	for _, m := range c.Methods {
		if strings.TrimSpace(m.Name) == "" {
			errs = append(errs, errors.New("method name must not be empty"))
			continue
		}
		if methods[m.Name] {
			errs = append(errs, fmt.Errorf("duplicate method '%s'", m.Name))
		}
		methods[m.Name] = true

		if m.Weight <= 0 {
			errs = append(errs, fmt.Errorf("method '%s': weight must be positive, got %g", m.Name, m.Weight))
		}
		if len(m.Backends) == 0 {
			errs = append(errs, fmt.Errorf("method '%s': at least one backend is required", m.Name))
		}

		backends := map[string]bool{}

		for _, b := range m.Backends {
			if !slices.Contains(evaluators.Kinds(), b.Type) {
				errs = append(errs, fmt.Errorf("method '%s': backend '%s' has unknown type '%s'", m.Name, b.Name, b.Type))
			}
			if b.Name == "" {
				errs = append(errs, fmt.Errorf("method '%s': backend name must not be empty", m.Name))
			} else if backends[b.Name] {
				errs = append(errs, fmt.Errorf("method '%s': duplicate backend '%s'", m.Name, b.Name))
			}
			backends[b.Name] = true
		}
	}

	return errors.Join(errs...)
}

// EvaluationConfig validates the project config and builds the immutable run
// configuration from it. Options override file values.
func (c *ProjectConfig) EvaluationConfig(opts ...config.Option) (*config.EvaluationConfig, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	registry, err := c.Registry()
	if err != nil {
		return nil, err
	}

	// Sinks named in a file are relative to that file.
	var baseDir string
	if c.Path != "" {
		baseDir = filepath.Dir(c.Path)
	}

	base := []config.Option{
		config.WithIterations(c.Iterations),
		config.WithCallTimeout(c.CallTimeout()),
		config.WithOutputPath(utils.ResolvePath(c.Output.Path, baseDir)),
		config.WithMetricsPath(utils.ResolvePath(c.Output.MetricsPath, baseDir)),
	}

	return config.NewEvaluationConfig(registry, c.MethodWeights(), append(base, opts...)...), nil
}
