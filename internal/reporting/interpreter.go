package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/spboyer/quorum/internal/models"
)

// InterpretScore returns a plain-language label for a numeric score (0–1).
func InterpretScore(score float64) string {
	pct := score * 100
	switch {
	case pct > 90:
		return "Excellent (>90%)"
	case pct >= 70:
		return "Good (70-90%)"
	case pct >= 50:
		return "Needs Work (50-70%)"
	default:
		return "Poor (<50%)"
	}
}

// InterpretGPA explains an overall grade. A grade without data is never
// described as a GPA.
func InterpretGPA(overall models.GradeResult) string {
	if overall.InsufficientData {
		return "Insufficient data: no category could be graded"
	}

	switch {
	case overall.GPA >= 3.7:
		return fmt.Sprintf("%s (GPA %.2f): ready to ship", overall.LetterGrade, overall.GPA)
	case overall.GPA >= 3.0:
		return fmt.Sprintf("%s (GPA %.2f): solid, with minor gaps", overall.LetterGrade, overall.GPA)
	case overall.GPA >= 2.0:
		return fmt.Sprintf("%s (GPA %.2f): usable, needs work", overall.LetterGrade, overall.GPA)
	default:
		return fmt.Sprintf("%s (GPA %.2f): significant problems", overall.LetterGrade, overall.GPA)
	}
}

// InterpretSpread explains how much a method's samples disagreed.
func InterpretSpread(c models.MethodConsensus) string {
	if c.SampleCount < 2 {
		return "Single sample, spread unknown."
	}
	if c.StdDev <= 0.05 {
		return fmt.Sprintf("Consistent across %d samples (σ=%.3f).", c.SampleCount, c.StdDev)
	}
	return fmt.Sprintf("Samples disagree (σ=%.3f, %.2f-%.2f). Consider more iterations.", c.StdDev, c.Min, c.Max)
}

// FormatSummaryReport produces a full plain-language report from a run.
func FormatSummaryReport(report *models.Report) string {
	var b strings.Builder

	duration := time.Duration(report.DurationMs) * time.Millisecond

	b.WriteString("=== Interpretation ===\n\n")

	fmt.Fprintf(&b, "Overall:   %s\n", InterpretGPA(report.Overall))
	if !report.Overall.InsufficientData {
		fmt.Fprintf(&b, "Coverage:  %d categories, %.0f%% of category weight\n",
			report.Overall.Categories, report.Overall.WeightCoverage*100)
	}
	fmt.Fprintf(&b, "Duration:  %v\n", duration)

	if failed := report.FailedMethods(); len(failed) > 0 {
		fmt.Fprintf(&b, "Failed:    %s\n", strings.Join(failed, ", "))
	}

	if len(report.Grades) > 0 {
		b.WriteString("\nPer-Category Interpretation:\n")
		for _, g := range report.Grades {
			fmt.Fprintf(&b, "  %s %s: %s\n", gradeIcon(g), g.Category, g.LetterGrade)
			fmt.Fprintf(&b, "    Score: %.2f — %s\n", g.Score, InterpretScore(g.Score))
		}
	}

	for _, m := range report.Methods {
		if m.Failed() || len(m.Consensus) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n%s:\n", m.Method)
		for _, c := range m.Consensus {
			fmt.Fprintf(&b, "  %s: %s\n", c.Category, InterpretSpread(c))
		}
	}

	return b.String()
}

func gradeIcon(g models.GradeResult) string {
	if g.GPA >= 2.0 {
		return "✓"
	}
	return "✗"
}
