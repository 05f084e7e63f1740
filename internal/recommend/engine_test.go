package recommend

import (
	"testing"

	"github.com/spboyer/quorum/internal/consensus"
	"github.com/spboyer/quorum/internal/grading"
	"github.com/spboyer/quorum/internal/models"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *models.Registry {
	t.Helper()

	th := models.Thresholds{Excellent: 0.9, Good: 0.8, Acceptable: 0.7, Poor: 0.5}
	reg, err := models.NewRegistry(
		models.Category{Name: "completeness", OverallWeight: 0.3, Thresholds: th},
		models.Category{Name: "security", OverallWeight: 0.3, Thresholds: th},
		models.Category{Name: "testing", OverallWeight: 0.2, Thresholds: models.Thresholds{Excellent: 0.9, Good: 0.8, Acceptable: 0.6, Poor: 0.4}},
		models.Category{Name: "documentation", OverallWeight: 0.2, Thresholds: th},
	)
	require.NoError(t, err)
	return reg
}

func input(t *testing.T, unified []models.UnifiedScore, methods ...models.MethodResult) Input {
	reg := newRegistry(t)
	return Input{
		Registry: reg,
		Grades:   grading.Grade(reg, unified),
		Unified:  unified,
		Methods:  methods,
	}
}

func TestRecommend_NothingBelowCutoff(t *testing.T) {
	recs := NewEngine().Recommend(input(t, []models.UnifiedScore{
		{Category: "completeness", Score: 0.81},
		{Category: "security", Score: 0.7},
	}))
	require.Empty(t, recs)
}

func TestRecommend_SampledCutoffDoesNotFire(t *testing.T) {
	reg := newRegistry(t)

	var results []models.SampleResult
	for i := range 3 {
		results = append(results, models.SampleOK(models.Sample{Category: "completeness", Method: "llm-judge", Iteration: i, Score: 0.7}, nil))
	}

	unified := consensus.Combine(reg, map[string]float64{"llm-judge": 0.4}, []models.MethodResult{{
		Method:    "llm-judge",
		Status:    models.MethodStatusOK,
		Consensus: consensus.Calculate("llm-judge", reg, results),
	}})
	require.Len(t, unified, 1)

	grades := grading.Grade(reg, unified)
	require.Equal(t, "C+", grades[0].LetterGrade)

	recs := NewEngine().Recommend(Input{Registry: reg, Grades: grades, Unified: unified})
	require.Empty(t, recs, "a category sampled at exactly 0.70 is not below the cut-off")
}

func TestRecommend_SingleLowCategory(t *testing.T) {
	recs := NewEngine().Recommend(input(t, []models.UnifiedScore{
		{Category: "security", Score: 0.5},
	}))

	// both triggers fire and are kept: the GPA floor and the threshold tier
	require.Len(t, recs, 2)

	require.Equal(t, models.PriorityHigh, recs[0].Priority)
	require.Equal(t, models.SourceGradeFloor, recs[0].Source)
	require.Equal(t, "security", recs[0].Category)
	require.Equal(t, "D", recs[0].Grade)
	require.Equal(t, 0.5, recs[0].Score)

	// 0.5 is not below poor (0.5) but is below acceptable
	require.Equal(t, models.PriorityMedium, recs[1].Priority)
	require.Equal(t, models.SourceThreshold, recs[1].Source)
	require.Contains(t, recs[1].Issue, "acceptable")
}

func TestRecommend_ThresholdTiers(t *testing.T) {
	recs := NewEngine().Recommend(input(t, []models.UnifiedScore{
		{Category: "completeness", Score: 0.66}, // C, passes the GPA floor, below acceptable
		{Category: "security", Score: 0.3},      // below poor
		{Category: "testing", Score: 0.65},      // above testing's acceptable of 0.6
	}))

	var tiers []models.Recommendation
	for _, r := range recs {
		if r.Source == models.SourceThreshold {
			tiers = append(tiers, r)
		}
	}

	require.Len(t, tiers, 3)
	require.Equal(t, "security", tiers[0].Category)
	require.Equal(t, models.PriorityHigh, tiers[0].Priority)
	require.Contains(t, tiers[0].Issue, "poor")
	require.Equal(t, "completeness", tiers[1].Category)
	require.Equal(t, models.PriorityMedium, tiers[1].Priority)
	require.Equal(t, "testing", tiers[2].Category)
	require.Equal(t, models.PriorityLow, tiers[2].Priority)
}

func TestRecommend_SortedByPriorityStable(t *testing.T) {
	judge := models.MethodResult{
		Method: "llm-judge",
		Findings: []models.Finding{
			{Category: "documentation", Priority: models.PriorityLow, Issue: "no changelog", Action: "add CHANGELOG.md"},
			{Category: "security", Priority: models.PriorityCritical, Issue: "secrets in repo", Action: "rotate"},
			{Category: "documentation", Priority: models.PriorityLow, Issue: "no changelog", Action: "add CHANGELOG.md"},
			{Category: "completeness", Priority: models.PriorityHigh, Issue: "TODO handlers", Action: "finish them"},
		},
	}
	graph := models.MethodResult{
		Method: "graph-analysis",
		Findings: []models.Finding{
			{Category: "documentation", Priority: models.PriorityLow, Issue: "no changelog", Action: "add CHANGELOG.md"},
		},
	}

	recs := NewEngine().Recommend(input(t, []models.UnifiedScore{
		{Category: "completeness", Score: 0.9},
		{Category: "security", Score: 0.3},
	}, judge, graph))

	var ranks []int
	for _, r := range recs {
		ranks = append(ranks, r.Priority.Rank())
	}
	require.IsNonDecreasing(t, ranks)

	require.Equal(t, models.PriorityCritical, recs[0].Priority)
	require.Equal(t, "llm-judge", recs[0].Method)
	require.Equal(t, 0.3, recs[0].Score)
	require.Equal(t, "F", recs[0].Grade)

	// HIGH ties keep generation order: floor, threshold, then evaluator
	require.Equal(t, models.SourceGradeFloor, recs[1].Source)
	require.Equal(t, models.SourceThreshold, recs[2].Source)
	require.Equal(t, models.SourceEvaluator, recs[3].Source)
	require.Equal(t, "TODO handlers", recs[3].Issue)

	// the repeated judge finding is collapsed, the graph one is kept
	require.Len(t, recs, 6)
	require.Equal(t, "llm-judge", recs[4].Method)
	require.Equal(t, "graph-analysis", recs[5].Method)
	require.Empty(t, recs[5].Grade, "documentation has no unified score")
}

func TestRecommend_Empty(t *testing.T) {
	require.Empty(t, NewEngine().Recommend(input(t, nil)))
}
