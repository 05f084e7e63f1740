package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spboyer/quorum/internal/models"
	"github.com/stretchr/testify/require"
)

func TestObserveSample(t *testing.T) {
	r := NewRecorder()

	r.ObserveSample(models.SampleOK(models.Sample{Method: "llm-judge", Backend: "gpt", Category: "security", Score: 0.8}, nil))
	r.ObserveSample(models.SampleOK(models.Sample{Method: "llm-judge", Backend: "gpt", Category: "security", Score: 0.6}, nil))
	r.ObserveSample(models.SampleErr("llm-judge", "gpt", "security", 2, models.ReasonNoScore, errors.New("no score")))
	r.ObserveSample(models.SampleErr("llm-judge", "claude", "security", 3, models.ReasonCallFailed, errors.New("timeout")))

	require.Equal(t, 2.0, testutil.ToFloat64(r.calls.WithLabelValues("llm-judge", "gpt", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.calls.WithLabelValues("llm-judge", "gpt", OutcomeNoScore)))
	require.Equal(t, 1.0, testutil.ToFloat64(r.calls.WithLabelValues("llm-judge", "claude", OutcomeCallFailed)))
	require.Equal(t, 1, testutil.CollectAndCount(r.sampleScores))
}

func TestObserveMethod(t *testing.T) {
	r := NewRecorder()

	r.ObserveMethod(models.MethodResult{Method: "llm-judge", Status: models.MethodStatusOK, DurationMs: 1500})
	r.ObserveMethod(models.MethodResult{Method: "graph-analysis", Status: models.MethodStatusFailed, Error: "boom"})

	require.Equal(t, 2, testutil.CollectAndCount(r.methodDuration))
	require.Equal(t, 1.0, testutil.ToFloat64(r.methodFailures.WithLabelValues("graph-analysis")))
	require.Equal(t, 1, testutil.CollectAndCount(r.methodFailures))
}

func TestObserveReport_WriteToTextfile(t *testing.T) {
	r := NewRecorder()

	r.ObserveReport(&models.Report{
		Unified: []models.UnifiedScore{{Category: "security", Score: 0.5}},
		Grades:  []models.GradeResult{{Category: "security", Score: 0.5, GPA: 1.0, LetterGrade: "D"}},
		Overall: models.GradeResult{Category: models.OverallCategory, GPA: 1.0, WeightCoverage: 0.2},
		Recommendations: []models.Recommendation{
			{Priority: models.PriorityHigh, Source: models.SourceGradeFloor},
			{Priority: models.PriorityMedium, Source: models.SourceThreshold},
		},
	})

	require.Equal(t, 0.5, testutil.ToFloat64(r.unifiedScores.WithLabelValues("security")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.overallGPA))
	require.Equal(t, 0.2, testutil.ToFloat64(r.weightCoverage))

	path := filepath.Join(t.TempDir(), "quorum.prom")
	require.NoError(t, r.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `quorum_unified_score{category="security"} 0.5`)
	require.Contains(t, string(data), "quorum_overall_gpa 1")
	require.Contains(t, string(data), `quorum_recommendations_total{priority="HIGH",source="grade_floor"} 1`)
}

func TestObserveReport_InsufficientDataOmitsOverall(t *testing.T) {
	r := NewRecorder()

	r.ObserveReport(&models.Report{
		Overall: models.GradeResult{Category: models.OverallCategory, LetterGrade: models.LetterNoData, InsufficientData: true},
	})

	families, err := r.Gatherer().Gather()
	require.NoError(t, err)

	for _, f := range families {
		require.NotEqual(t, "quorum_overall_gpa", f.GetName())
	}
}

func TestWriteToTextfile_BadPath(t *testing.T) {
	r := NewRecorder()
	err := r.WriteToTextfile(filepath.Join(t.TempDir(), "missing", "dir", "quorum.prom"))
	require.ErrorContains(t, err, "failed to write metrics")
}
