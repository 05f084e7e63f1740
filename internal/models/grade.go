package models

// OverallCategory is the category name used for the run-wide grade.
const OverallCategory = "overall"

// LetterNoData is the letter grade reported when nothing could be graded.
const LetterNoData = "N/A"

// GradeResult is the GPA translation of a score. For the overall grade,
// Category is [OverallCategory].
type GradeResult struct {
	Category    string  `json:"category"`
	Score       float64 `json:"score"`
	GPA         float64 `json:"gpa"`
	LetterGrade string  `json:"letter_grade"`

	// Weight is the nominal registry weight of the category. It is reported
	// as configured, never rescaled.
	Weight float64 `json:"weight,omitempty"`

	// The fields below are only populated on the overall grade.
	Categories       int     `json:"categories,omitempty"`
	WeightCoverage   float64 `json:"weight_coverage,omitempty"`
	InsufficientData bool    `json:"insufficient_data,omitempty"`
}
