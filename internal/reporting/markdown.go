package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/spboyer/quorum/internal/models"
)

// FormatDuration formats a duration in a consistent, human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(time.Millisecond).String()
}

// FormatMarkdown renders a run as a markdown document, suitable for a pull
// request comment.
func FormatMarkdown(report *models.Report) string {
	var b strings.Builder

	b.WriteString("## Quorum Evaluation\n\n")

	overall := report.Overall
	if overall.InsufficientData {
		b.WriteString("**Overall:** N/A (insufficient data)")
	} else {
		fmt.Fprintf(&b, "**Overall:** %s (GPA %.2f)", overall.LetterGrade, overall.GPA)
	}
	fmt.Fprintf(&b, " | **Iterations:** %d | **Duration:** %s\n\n",
		report.Iterations, FormatDuration(time.Duration(report.DurationMs)*time.Millisecond))

	// Methods
	b.WriteString("### Methods\n\n")
	b.WriteString("| Method | Weight | Status | Samples | Failed Calls | Unparsed |\n")
	b.WriteString("|--------|--------|--------|---------|--------------|----------|\n")

	for _, m := range report.Methods {
		status := "✅"
		if m.Failed() {
			status = "❌ " + escapeCell(m.Error)
		}
		fmt.Fprintf(&b, "| %s | %.2f | %s | %d | %d | %d |\n",
			m.Method, m.Weight, status, len(m.Samples), m.CallFailures, m.ExtractionFailures)
	}
	b.WriteString("\n")

	// Grades
	if len(report.Grades) > 0 {
		b.WriteString("### Grades\n\n")
		b.WriteString("| Category | Score | GPA | Grade | Methods |\n")
		b.WriteString("|----------|-------|-----|-------|---------|\n")

		unified := make(map[string]models.UnifiedScore, len(report.Unified))
		for _, u := range report.Unified {
			unified[u.Category] = u
		}

		for _, g := range report.Grades {
			var methods []string
			for _, c := range unified[g.Category].ContributingMethods {
				methods = append(methods, fmt.Sprintf("%s %.0f%%", c.Method, c.Weight*100))
			}
			fmt.Fprintf(&b, "| %s | %.2f | %.1f | %s | %s |\n",
				g.Category, g.Score, g.GPA, g.LetterGrade, strings.Join(methods, ", "))
		}
		b.WriteString("\n")
	}

	// Recommendations
	if len(report.Recommendations) > 0 {
		b.WriteString("### Recommendations\n\n")
		for _, r := range report.Recommendations {
			fmt.Fprintf(&b, "- **%s** `%s`: %s. %s\n", r.Priority, r.Category, r.Issue, r.Action)
		}
		b.WriteString("\n")
	}

	if len(report.Errors) > 0 {
		b.WriteString("### ⚠️ Errors\n\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "**Run:** %s", report.RunID)
	if report.ContextDigest != "" {
		fmt.Fprintf(&b, " | **Context:** %s", report.ContextDigest)
	}
	b.WriteString("\n")

	return b.String()
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}
