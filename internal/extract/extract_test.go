package extract

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    float64
		pattern string
	}{
		{"fraction", "I'd rate this 8/10 overall.", 0.8, "fraction"},
		{"fraction decimal", "Score: 7.5 / 10", 0.75, "fraction"},
		{"fraction perfect", "10/10", 1.0, "fraction"},
		{"percentage", "Coverage looks like 85%.", 0.85, "percentage"},
		{"percentage full", "100%", 1.0, "percentage"},
		{"label", "score: 0.72", 0.72, "label"},
		{"label uppercase", "SCORE=6", 0.6, "label"},
		{"label out of ten", "Score: 8.5", 0.85, "label"},
		{"bare decimal", "0.64", 0.64, "decimal"},
		{"bare integer", "I think 7", 0.7, "decimal"},
		{"bare hundred scale", "92", 0.92, "decimal"},
		{"clamped high", "score: 950", 1.0, "label"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pattern, ok := ScoreWithPattern(tt.text)
			require.True(t, ok, "expected a score in %q", tt.text)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Equal(t, tt.pattern, pattern)
		})
	}
}

func TestScore_PatternPriority(t *testing.T) {
	// the fraction wins over the percentage and the label even though both
	// appear earlier in the text
	got, pattern, ok := ScoreWithPattern("score: 3, about 40% done, final 9/10")
	require.True(t, ok)
	assert.Equal(t, "fraction", pattern)
	assert.InDelta(t, 0.9, got, 1e-9)

	// percentage beats label
	got, pattern, ok = ScoreWithPattern("score: 3 (roughly 55%)")
	require.True(t, ok)
	assert.Equal(t, "percentage", pattern)
	assert.InDelta(t, 0.55, got, 1e-9)
}

func TestScore_ScaledPatternsAreMonotonic(t *testing.T) {
	tests := []struct {
		text    string
		want    float64
		pattern string
	}{
		{"Score: 0/10", 0, "fraction"},
		{"Score: 0.5/10", 0.05, "fraction"},
		{"Score: 1/10", 0.1, "fraction"},
		{"Score: 2/10", 0.2, "fraction"},
		{"Score: 15/10", 1, "fraction"},
		{"1%", 0.01, "percentage"},
		{"0.5%", 0.005, "percentage"},
		{"9%", 0.09, "percentage"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, pattern, ok := ScoreWithPattern(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.pattern, pattern)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	prev := -1.0
	for n := 0; n <= 10; n++ {
		got, ok := Score(fmt.Sprintf("Score: %d/10", n))
		require.True(t, ok)
		assert.Greater(t, got, prev, "%d/10", n)
		prev = got
	}
}

func TestScore_NoScore(t *testing.T) {
	for _, text := range []string{"", "looks fine to me", "N/A", "score: high"} {
		t.Run(text, func(t *testing.T) {
			got, ok := Score(text)
			assert.False(t, ok)
			assert.Zero(t, got)
		})
	}
}

func TestScore_AlwaysInRange(t *testing.T) {
	inputs := []string{"0", "0.0", "1", "1.5", "10", "11", "99.9", "100", "1000", "123456", "0.00001", "5/10", "200%"}
	for _, in := range inputs {
		got, ok := Score(in)
		require.True(t, ok, in)
		assert.GreaterOrEqual(t, got, 0.0, in)
		assert.LessOrEqual(t, got, 1.0, in)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
		ok   bool
	}{
		{0.5, 0.5, true},
		{1, 1, true},
		{8, 0.8, true},
		{8.5, 0.85, true},
		{85, 0.85, true},
		{-0.2, 0, true},
		{math.NaN(), 0, false},
		{math.Inf(1), 0, false},
	}
	for _, tt := range tests {
		got, ok := Normalize(tt.in)
		assert.Equal(t, tt.ok, ok, "Normalize(%v)", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "Normalize(%v)", tt.in)
	}
}
