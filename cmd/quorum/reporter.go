package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/quorum/internal/models"
)

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// printReport writes the console summary of a run.
func printReport(w io.Writer, report *models.Report) {
	nameWidth := len("Category")
	for _, m := range report.Methods {
		nameWidth = max(nameWidth, runewidth.StringWidth(m.Method))
	}
	for _, g := range report.Grades {
		nameWidth = max(nameWidth, runewidth.StringWidth(g.Category))
	}

	// Fixed column widths (display columns) for emoji-safe alignment.
	const colWeight = 8
	const colStatus = 8
	const colSamples = 9
	const colScore = 7
	const colGPA = 5
	totalWidth := nameWidth + colWeight + colStatus + colSamples + 10 + 8 // failures column and 4 gaps

	fmt.Fprintf(w, "\n")                                      //nolint:errcheck
	fmt.Fprintf(w, "%s\n", strings.Repeat("═", totalWidth))   //nolint:errcheck
	fmt.Fprintf(w, " EVALUATION SUMMARY\n")                   //nolint:errcheck
	fmt.Fprintf(w, "%s\n\n", strings.Repeat("═", totalWidth)) //nolint:errcheck

	fmt.Fprintf(w, "%s  %s  %s  %s  %s\n", //nolint:errcheck
		padRight("Method", nameWidth),
		padRight("Weight", colWeight),
		padRight("Status", colStatus),
		padRight("Samples", colSamples),
		"Failures")
	fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth)) //nolint:errcheck

	for _, m := range report.Methods {
		status := "✅"
		if m.Failed() {
			status = "❌"
		}
		fmt.Fprintf(w, "%s  %s  %s  %s  %d\n", //nolint:errcheck
			padRight(m.Method, nameWidth),
			padRight(fmt.Sprintf("%.2f", m.Weight), colWeight),
			padRight(status, colStatus),
			padRight(fmt.Sprintf("%d/%d", len(m.Samples), m.Calls), colSamples),
			m.CallFailures+m.ExtractionFailures)
		if m.Failed() {
			fmt.Fprintf(w, "  └ %s\n", m.Error) //nolint:errcheck
		}
	}
	fmt.Fprintf(w, "\n") //nolint:errcheck

	if len(report.Grades) > 0 {
		fmt.Fprintf(w, "%s  %s  %s  %s  %s\n", //nolint:errcheck
			padRight("Category", nameWidth),
			padRight("Score", colScore),
			padRight("GPA", colGPA),
			padRight("Grade", colGPA),
			"Methods")
		fmt.Fprintf(w, "%s\n", strings.Repeat("─", totalWidth)) //nolint:errcheck

		contributors := make(map[string]int, len(report.Unified))
		for _, u := range report.Unified {
			contributors[u.Category] = len(u.ContributingMethods)
		}

		for _, g := range report.Grades {
			fmt.Fprintf(w, "%s  %s  %s  %s  %d\n", //nolint:errcheck
				padRight(g.Category, nameWidth),
				padRight(fmt.Sprintf("%.2f", g.Score), colScore),
				padRight(fmt.Sprintf("%.1f", g.GPA), colGPA),
				padRight(g.LetterGrade, colGPA),
				contributors[g.Category])
		}
		fmt.Fprintf(w, "\n") //nolint:errcheck
	}

	if report.Overall.InsufficientData {
		fmt.Fprintf(w, "Overall: %s (insufficient data)\n", models.LetterNoData) //nolint:errcheck
	} else {
		fmt.Fprintf(w, "Overall: %s (GPA %.2f) over %d categories\n", //nolint:errcheck
			report.Overall.LetterGrade, report.Overall.GPA, report.Overall.Categories)
	}
	fmt.Fprintf(w, "Duration: %v\n", msDuration(report.DurationMs)) //nolint:errcheck

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(w, "\nRecommendations:\n") //nolint:errcheck
		for _, r := range report.Recommendations {
			fmt.Fprintf(w, "  [%s] %s: %s\n", r.Priority, r.Category, r.Issue) //nolint:errcheck
			fmt.Fprintf(w, "      → %s\n", r.Action)                          //nolint:errcheck
		}
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n") //nolint:errcheck
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  - %s\n", e) //nolint:errcheck
		}
	}
}
