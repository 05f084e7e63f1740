// Package extract turns free-form evaluator responses into normalized scores.
package extract

import (
	"math"
	"regexp"
	"strconv"
)

// Pattern is one way a response can express a score. A pattern with a scale
// divides the matched value by it; the others go through [Normalize].
type Pattern struct {
	Name  string
	Scale float64
	re    *regexp.Regexp
}

// Patterns are tried in order; the first match wins.
var Patterns = []Pattern{
	{Name: "fraction", Scale: 10, re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*/\s*10\b`)},
	{Name: "percentage", Scale: 100, re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%`)},
	{Name: "label", re: regexp.MustCompile(`(?i)score\s*[:=]\s*(\d+(?:\.\d+)?)`)},
	{Name: "decimal", re: regexp.MustCompile(`(\d+(?:\.\d+)?)`)},
}

// Score extracts a score in [0, 1] from text. The second return value is
// false when nothing matched; that is "no score", which callers must treat
// as a missing sample rather than zero.
func Score(text string) (float64, bool) {
	score, _, ok := ScoreWithPattern(text)
	return score, ok
}

// ScoreWithPattern is like [Score] but also reports which pattern matched.
func ScoreWithPattern(text string) (float64, string, bool) {
	for _, p := range Patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		score, ok := p.normalize(v)
		if !ok {
			continue
		}
		return score, p.Name, true
	}
	return 0, "", false
}

func (p Pattern) normalize(v float64) (float64, bool) {
	if p.Scale == 0 {
		return Normalize(v)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return Clamp(v / p.Scale), true
}

// Normalize maps a raw value onto [0, 1]: values above 1 are read as out of
// ten, and if that is still above 1, as out of a hundred. The result is
// clamped. NaN and infinities are rejected.
func Normalize(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v > 1 {
		if v/10 > 1 {
			v = v / 100
		} else {
			v = v / 10
		}
	}
	return Clamp(v), true
}

// Clamp limits v to [0, 1].
func Clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
