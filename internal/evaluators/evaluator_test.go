package evaluators

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	t.Run("program", func(t *testing.T) {
		e, err := Create(KindProgram, "graph", map[string]any{
			"command": "quorum-graph",
			"args":    []string{"--json"},
			"timeout": 12,
		})
		require.NoError(t, err)
		require.Equal(t, KindProgram, e.Kind())
		require.Equal(t, "graph", e.Name())

		pe := e.(*programEvaluator)
		require.Equal(t, "quorum-graph", pe.command)
		require.Equal(t, []string{"--json"}, pe.args)
		require.Equal(t, 12, int(pe.timeout.Seconds()))
	})

	t.Run("program without command", func(t *testing.T) {
		_, err := Create(KindProgram, "graph", map[string]any{})
		require.ErrorContains(t, err, "must have a 'command'")
	})

	t.Run("static", func(t *testing.T) {
		e, err := Create(KindStatic, "canned", map[string]any{
			"responses": map[string]any{"security": "5/10"},
			"default":   "7/10",
		})
		require.NoError(t, err)
		require.Equal(t, KindStatic, e.Kind())

		se := e.(*staticEvaluator)
		require.Equal(t, "5/10", se.args.Responses["security"])
		require.Equal(t, "7/10", se.args.Default)
	})

	t.Run("copilot", func(t *testing.T) {
		e, err := Create(KindCopilot, "judge", map[string]any{"model": "gpt-4o-mini"})
		require.NoError(t, err)
		require.Equal(t, KindCopilot, e.Kind())

		j := e.(*copilotJudge)
		require.Equal(t, "gpt-4o-mini", j.args.Model)
		require.Equal(t, DefaultJudgePrompt, j.args.Prompt)
	})

	t.Run("copilot with a broken prompt", func(t *testing.T) {
		_, err := Create(KindCopilot, "judge", map[string]any{"prompt": "{{.Category"})
		require.ErrorContains(t, err, "invalid prompt")
	})

	t.Run("bad params", func(t *testing.T) {
		_, err := Create(KindProgram, "graph", map[string]any{"timeout": []string{"nope"}})
		require.Error(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := Create("nope", "x", nil)
		require.ErrorContains(t, err, "'nope' is not a valid evaluator type")
	})
}
