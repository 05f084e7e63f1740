package main

import (
	"fmt"

	"github.com/spboyer/quorum/internal/extract"
	"github.com/spboyer/quorum/internal/grading"
	"github.com/spf13/cobra"
)

func newGradeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grade <score>...",
		Short: "Translate scores to GPA and letter grades",
		Long: `Translate scores to GPA and letter grades.

A score is anything the evaluator output parser understands: 0.81, 81%,
8.1/10 or "score: 81".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "%s  %s  %s\n", padRight("Input", 12), padRight("Score", 6), "GPA  Grade") //nolint:errcheck

			for _, arg := range args {
				score, ok := extract.Score(arg)
				if !ok {
					return fmt.Errorf("'%s' is not a score", arg)
				}

				gpa, letter := grading.Translate(score)
				fmt.Fprintf(w, "%s  %s  %.1f  %s\n", padRight(arg, 12), padRight(fmt.Sprintf("%.2f", score), 6), gpa, letter) //nolint:errcheck
			}

			return nil
		},
	}
}
