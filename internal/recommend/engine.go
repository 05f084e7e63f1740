package recommend

import (
	"fmt"
	"sort"

	"github.com/spboyer/quorum/internal/grading"
	"github.com/spboyer/quorum/internal/models"
)

// Engine derives prioritized recommendations from a graded run.
type Engine struct {
	// GPAFloor is the GPA below which a category gets a HIGH recommendation.
	GPAFloor float64

	// ScoreCutoff is the raw unified score below which the threshold tier fires.
	ScoreCutoff float64
}

// NewEngine creates a recommendation engine with default cut-offs.
func NewEngine() *Engine {
	return &Engine{
		GPAFloor:    2.0,
		ScoreCutoff: 0.70,
	}
}

// Input is everything the engine looks at.
type Input struct {
	Registry *models.Registry
	Grades   []models.GradeResult
	Unified  []models.UnifiedScore
	Methods  []models.MethodResult
}

// Recommend builds the recommendation list. Three independent sources are
// generated in order (GPA floor, registry thresholds, evaluator findings) and
// merged without deduplication, then stable sorted by priority so ties keep
// generation order.
func (e *Engine) Recommend(in Input) []models.Recommendation {
	var recs []models.Recommendation

	recs = append(recs, e.gradeFloor(in.Grades)...)
	recs = append(recs, e.thresholds(in.Registry, in.Unified)...)
	recs = append(recs, evaluatorFindings(in.Unified, in.Methods)...)

	sort.SliceStable(recs, func(a, b int) bool {
		return recs[a].Priority.Rank() < recs[b].Priority.Rank()
	})

	return recs
}

func (e *Engine) gradeFloor(grades []models.GradeResult) []models.Recommendation {
	var recs []models.Recommendation

	for _, g := range grades {
		if g.GPA >= e.GPAFloor {
			continue
		}

		recs = append(recs, models.Recommendation{
			Priority: models.PriorityHigh,
			Category: g.Category,
			Score:    g.Score,
			Grade:    g.LetterGrade,
			Issue:    fmt.Sprintf("%s is graded %s (GPA %.1f), below the %.1f floor", g.Category, g.LetterGrade, g.GPA, e.GPAFloor),
			Action:   fmt.Sprintf("Prioritize improving %s before other categories", g.Category),
			Source:   models.SourceGradeFloor,
		})
	}

	return recs
}

func (e *Engine) thresholds(registry *models.Registry, unified []models.UnifiedScore) []models.Recommendation {
	var recs []models.Recommendation

	for _, u := range unified {
		if u.Score >= e.ScoreCutoff {
			continue
		}

		_, letter := grading.Translate(u.Score)

		rec := models.Recommendation{
			Category: u.Category,
			Score:    u.Score,
			Grade:    letter,
			Source:   models.SourceThreshold,
		}

		category, known := registry.Lookup(u.Category)

		switch {
		case known && u.Score < category.Thresholds.Poor:
			rec.Priority = models.PriorityHigh
			rec.Issue = fmt.Sprintf("%s scored %.0f%%, below the poor threshold of %.0f%%", u.Category, u.Score*100, category.Thresholds.Poor*100)
			rec.Action = fmt.Sprintf("Address the fundamental gaps in %s", u.Category)
		case known && u.Score < category.Thresholds.Acceptable:
			rec.Priority = models.PriorityMedium
			rec.Issue = fmt.Sprintf("%s scored %.0f%%, below the acceptable threshold of %.0f%%", u.Category, u.Score*100, category.Thresholds.Acceptable*100)
			rec.Action = fmt.Sprintf("Bring %s up to an acceptable level", u.Category)
		default:
			rec.Priority = models.PriorityLow
			rec.Issue = fmt.Sprintf("%s scored %.0f%%, below %.0f%%", u.Category, u.Score*100, e.ScoreCutoff*100)
			rec.Action = fmt.Sprintf("Review %s for incremental improvements", u.Category)
		}

		recs = append(recs, rec)
	}

	return recs
}

// evaluatorFindings turns every method's findings into recommendations, in
// method order. Exact repeats within one method (the same finding reported on
// several iterations) are collapsed.
func evaluatorFindings(unified []models.UnifiedScore, methods []models.MethodResult) []models.Recommendation {
	scores := make(map[string]float64, len(unified))
	for _, u := range unified {
		scores[u.Category] = u.Score
	}

	type key struct {
		category string
		priority models.Priority
		issue    string
	}

	var recs []models.Recommendation

	for _, m := range methods {
		seen := map[key]bool{}

		for _, f := range m.Findings {
			k := key{f.Category, f.Priority, f.Issue}
			if seen[k] {
				continue
			}
			seen[k] = true

			rec := models.Recommendation{
				Priority: f.Priority,
				Category: f.Category,
				Issue:    f.Issue,
				Action:   f.Action,
				Source:   models.SourceEvaluator,
				Method:   m.Method,
			}

			if score, ok := scores[f.Category]; ok {
				rec.Score = score
				_, rec.Grade = grading.Translate(score)
			}

			recs = append(recs, rec)
		}
	}

	return recs
}
