// Package config holds the immutable configuration of one evaluation run.
package config

import (
	"maps"
	"time"

	"github.com/spboyer/quorum/internal/models"
)

const (
	DefaultIterations  = 10
	DefaultCallTimeout = 60 * time.Second
)

// EvaluationConfig is built once per run and passed to every stage. None of
// its accessors hand out shared mutable state.
type EvaluationConfig struct {
	registry      *models.Registry
	methodWeights map[string]float64

	iterations  int
	callTimeout time.Duration
	verbose     bool
	outputPath  string
	metricsPath string
	contextDir  string
}

type Option func(*EvaluationConfig)

// NewEvaluationConfig creates a run configuration over a category registry
// and a per-method weight table.
func NewEvaluationConfig(registry *models.Registry, methodWeights map[string]float64, opts ...Option) *EvaluationConfig {
	c := &EvaluationConfig{
		registry:      registry,
		methodWeights: maps.Clone(methodWeights),
		iterations:    DefaultIterations,
		callTimeout:   DefaultCallTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithIterations sets the number of sampling iterations per method. Values
// below 1 keep the default.
func WithIterations(n int) Option {
	return func(c *EvaluationConfig) {
		if n > 0 {
			c.iterations = n
		}
	}
}

// WithCallTimeout bounds each evaluator call. Non-positive values keep the default.
func WithCallTimeout(d time.Duration) Option {
	return func(c *EvaluationConfig) {
		if d > 0 {
			c.callTimeout = d
		}
	}
}

func WithVerbose(v bool) Option {
	return func(c *EvaluationConfig) {
		c.verbose = v
	}
}

// WithOutputPath sets where the report is written. A path ending in .gz is
// compressed.
func WithOutputPath(path string) Option {
	return func(c *EvaluationConfig) {
		c.outputPath = path
	}
}

// WithMetricsPath sets where run metrics are exported in the Prometheus text format.
func WithMetricsPath(path string) Option {
	return func(c *EvaluationConfig) {
		c.metricsPath = path
	}
}

// WithContextDir sets the project directory context is gathered from.
func WithContextDir(dir string) Option {
	return func(c *EvaluationConfig) {
		c.contextDir = dir
	}
}

func (c *EvaluationConfig) Registry() *models.Registry {
	return c.registry
}

// MethodWeights returns a copy of the nominal method weight table.
func (c *EvaluationConfig) MethodWeights() map[string]float64 {
	return maps.Clone(c.methodWeights)
}

// MethodWeight returns the nominal weight of one method.
func (c *EvaluationConfig) MethodWeight(method string) (float64, bool) {
	w, ok := c.methodWeights[method]
	return w, ok
}

func (c *EvaluationConfig) Iterations() int {
	return c.iterations
}

func (c *EvaluationConfig) CallTimeout() time.Duration {
	return c.callTimeout
}

func (c *EvaluationConfig) Verbose() bool {
	return c.verbose
}

func (c *EvaluationConfig) OutputPath() string {
	return c.outputPath
}

func (c *EvaluationConfig) MetricsPath() string {
	return c.metricsPath
}

func (c *EvaluationConfig) ContextDir() string {
	return c.contextDir
}
