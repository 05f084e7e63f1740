package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const validConfigYAML = `iterations: 5
call_timeout_seconds: 30
categories:
  - name: security
    weight: 0.6
    thresholds: {excellent: 0.95, good: 0.85, acceptable: 0.75, poor: 0.6}
  - name: testing
    weight: 0.4
    description: tests exist and pass
    thresholds: {excellent: 0.9, good: 0.8, acceptable: 0.7, poor: 0.5}
methods:
  - name: llm-judge
    weight: 0.5
    backends:
      - type: copilot
        name: gpt
        config:
          model: gpt-4o
  - name: graph-analysis
    weight: 0.5
    backends:
      - type: program
        name: quorum-graph
        config:
          command: quorum-graph
          timeout: 60
output:
  path: report.json
  metrics_path: quorum.prom
`

const invalidConfigYAML = `iterations: 0
categories:
  - name: security
    weight: 1.5
    thresholds: {excellent: 0.95, good: 0.85, acceptable: 0.75}
methods:
  - name: llm-judge
    weight: 1
    backends:
      - type: oracle
        name: delphi
colour: blue
`

func TestValidateConfigBytes_Valid(t *testing.T) {
	errs := ValidateConfigBytes([]byte(validConfigYAML))
	require.Empty(t, errs, "valid config should have no errors")
}

func TestValidateConfigBytes_Empty(t *testing.T) {
	require.Empty(t, ValidateConfigBytes(nil))
	require.Empty(t, ValidateConfigBytes([]byte("iterations: 3\n")), "every section is optional")
}

func TestValidateConfigBytes_Invalid(t *testing.T) {
	errs := ValidateConfigBytes([]byte(invalidConfigYAML))
	require.NotEmpty(t, errs, "invalid config should have errors")

	joined := strings.Join(errs, "\n")
	require.Contains(t, joined, "/iterations")
	require.Contains(t, joined, "/categories/0/weight")
	require.Contains(t, joined, "/categories/0/thresholds")
	require.Contains(t, joined, "poor")
	require.Contains(t, joined, "/methods/0/backends/0/type")
	require.Contains(t, joined, "colour")
}

func TestValidateConfigBytes_BadYAML(t *testing.T) {
	errs := ValidateConfigBytes([]byte("methods: [unclosed"))
	require.Len(t, errs, 1)
	require.Contains(t, errs[0], "YAML parse error")
}

func TestValidateConfigFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, ".quorum.yaml")
	require.NoError(t, os.WriteFile(path, []byte(invalidConfigYAML), 0644))

	errs, err := ValidateConfigFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
}

func TestValidateConfigFile_NotFound(t *testing.T) {
	_, err := ValidateConfigFile("/nonexistent/.quorum.yaml")
	require.Error(t, err)
}
