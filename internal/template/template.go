package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Context holds all variables available when rendering an evaluator prompt.
type Context struct {
	Method      string
	Category    string
	Description string
	Iteration   int

	Excellent  float64
	Good       float64
	Acceptable float64
	Poor       float64

	// Project is the gathered project context.
	Project string
}

// Render resolves template expressions in the given string.
// Uses Go's text/template syntax: {{.Category}}, {{.Project}}.
// Returns the input unchanged if it contains no template delimiters.
func Render(tmpl string, ctx *Context) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	t, err := template.New("").Option("missingkey=error").Funcs(template.FuncMap{
		"pct": func(v float64) string { return fmt.Sprintf("%.0f%%", v*100) },
	}).Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("template: parse: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("template: render: %w", err)
	}

	return buf.String(), nil
}
