// Package grading maps unified scores onto a 4.0 GPA scale.
package grading

import (
	"github.com/spboyer/quorum/internal/metrics"
	"github.com/spboyer/quorum/internal/models"
)

// Bin is one step of the GPA scale. A score lands in the first bin, highest
// first, whose Min it reaches.
type Bin struct {
	Min    float64
	GPA    float64
	Letter string
}

// Scale is the fixed GPA table, highest bin first.
var Scale = []Bin{
	{Min: 0.95, GPA: 4.0, Letter: "A"},
	{Min: 0.90, GPA: 3.7, Letter: "A-"},
	{Min: 0.85, GPA: 3.3, Letter: "B+"},
	{Min: 0.80, GPA: 3.0, Letter: "B"},
	{Min: 0.75, GPA: 2.7, Letter: "B-"},
	{Min: 0.70, GPA: 2.3, Letter: "C+"},
	{Min: 0.65, GPA: 2.0, Letter: "C"},
	{Min: 0.60, GPA: 1.7, Letter: "C-"},
	{Min: 0.55, GPA: 1.3, Letter: "D+"},
	{Min: 0.50, GPA: 1.0, Letter: "D"},
}

// Failing is the grade below the lowest bin.
var Failing = Bin{Min: 0, GPA: 0.0, Letter: "F"}

// Translate returns the GPA and letter grade for a score in [0, 1]. A score
// exactly on a boundary takes the higher bin.
func Translate(score float64) (float64, string) {
	for _, b := range Scale {
		if score >= b.Min {
			return b.GPA, b.Letter
		}
	}
	return Failing.GPA, Failing.Letter
}

// Letter returns the letter grade closest to a GPA value, used for the
// overall weighted GPA which rarely lands exactly on a bin.
func Letter(gpa float64) string {
	for _, b := range Scale {
		if gpa >= b.GPA {
			return b.Letter
		}
	}
	return Failing.Letter
}

// Grade translates every unified score, in order, attaching the category's
// nominal weight from the registry. A category the registry doesn't know is
// still graded, with a zero weight.
func Grade(registry *models.Registry, unified []models.UnifiedScore) []models.GradeResult {
	grades := make([]models.GradeResult, 0, len(unified))

	for _, u := range unified {
		gpa, letter := Translate(u.Score)

		g := models.GradeResult{
			Category:    u.Category,
			Score:       u.Score,
			GPA:         gpa,
			LetterGrade: letter,
		}

		if c, ok := registry.Lookup(u.Category); ok {
			g.Weight = c.OverallWeight
		}

		grades = append(grades, g)
	}

	return grades
}

// Overall is the weighted mean GPA over the graded categories, using each
// category's nominal registry weight. Categories without a grade are left out
// of both sums. WeightCoverage reports the graded categories' share of the
// registry's total weight. Grades with a zero weight, i.e. categories outside
// the registry, are left out too, so grades for unregistered categories alone
// count as nothing graded. With nothing graded the result is flagged as
// insufficient data rather than reported as a zero GPA.
func Overall(registry *models.Registry, grades []models.GradeResult) models.GradeResult {
	var weighted, weights, score float64
	graded := 0

	for _, g := range grades {
		if g.Weight <= 0 {
			continue
		}
		weighted += g.Weight * g.GPA
		score += g.Weight * g.Score
		weights += g.Weight
		graded++
	}

	if graded == 0 {
		return models.GradeResult{
			Category:         models.OverallCategory,
			LetterGrade:      models.LetterNoData,
			InsufficientData: true,
		}
	}

	// rounded so a uniform grade lands exactly on its bin
	gpa := metrics.Round(weighted / weights)

	overall := models.GradeResult{
		Category:    models.OverallCategory,
		Score:       metrics.Round(score / weights),
		GPA:         gpa,
		LetterGrade: Letter(gpa),
		Weight:      weights,
		Categories:  graded,
	}

	if total := registry.TotalWeight(); total > 0 {
		overall.WeightCoverage = weights / total
	}

	return overall
}
