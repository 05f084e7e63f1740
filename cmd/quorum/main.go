package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Run completed at or above the minimum GPA
	ExitGradeFailed = 1 // Overall grade below --min-gpa, or nothing could be graded
	ExitError       = 2 // Configuration or runtime error
)

// GradeFailureError indicates that the evaluation ran successfully,
// but the overall grade did not meet the required minimum.
type GradeFailureError struct {
	Message string
}

func (e *GradeFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var gradeFailureErr *GradeFailureError
		if errors.As(err, &gradeFailureErr) {
			os.Exit(ExitGradeFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
