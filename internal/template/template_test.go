package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		ctx     *Context
		want    string
		wantErr bool
	}{
		{
			name: "category and description",
			tmpl: "Rate {{.Category}}: {{.Description}}",
			ctx:  &Context{Category: "security", Description: "absence of vulnerabilities"},
			want: "Rate security: absence of vulnerabilities",
		},
		{
			name: "iteration and method",
			tmpl: "{{.Method}} pass {{.Iteration}}",
			ctx:  &Context{Method: "llm-judge", Iteration: 3},
			want: "llm-judge pass 3",
		},
		{
			name: "thresholds as percentages",
			tmpl: "excellent >= {{pct .Excellent}}, poor < {{pct .Poor}}",
			ctx:  &Context{Excellent: 0.9, Poor: 0.5},
			want: "excellent >= 90%, poor < 50%",
		},
		{
			name: "no delimiters is returned unchanged",
			tmpl: "plain prompt",
			ctx:  nil,
			want: "plain prompt",
		},
		{
			name:    "unknown field",
			tmpl:    "{{.Nope}}",
			ctx:     &Context{},
			wantErr: true,
		},
		{
			name:    "parse error",
			tmpl:    "{{.Category",
			ctx:     &Context{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.ctx)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderProjectContext(t *testing.T) {
	got, err := Render("Context:\n{{.Project}}", &Context{Project: "module example.com/x\n42 .go files"})
	require.NoError(t, err)
	assert.Equal(t, "Context:\nmodule example.com/x\n42 .go files", got)
}
