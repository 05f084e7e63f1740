// Package consensus reduces samples to per-method statistics and combines
// methods into one score per category.
package consensus

import (
	"slices"

	"github.com/spboyer/quorum/internal/metrics"
	"github.com/spboyer/quorum/internal/models"
)

// Calculate groups a method's successful samples by category and reduces each
// group. Failed calls are ignored; a category with no samples has no entry.
// Results follow registry order, with categories the registry doesn't know
// appended by name.
func Calculate(method string, registry *models.Registry, results []models.SampleResult) []models.MethodConsensus {
	byCategory := map[string][]float64{}

	for _, s := range models.Samples(results) {
		byCategory[s.Category] = append(byCategory[s.Category], s.Score)
	}

	var out []models.MethodConsensus

	for _, name := range orderedCategories(registry, byCategory) {
		out = append(out, Reduce(method, name, byCategory[name]))
	}

	return out
}

// Reduce computes the statistics of one (method, category) group. scores
// must not be empty. The mean is rounded with [metrics.Round].
func Reduce(method, category string, scores []float64) models.MethodConsensus {
	lo, hi := metrics.MinMax(scores)

	return models.MethodConsensus{
		Category:     category,
		Method:       method,
		Mean:         metrics.Round(metrics.Mean(scores)),
		Median:       metrics.Median(scores),
		StdDev:       metrics.StdDev(scores),
		Confidence95: metrics.ConfidenceHalfWidth95(scores),
		Min:          lo,
		Max:          hi,
		SampleCount:  len(scores),
	}
}

func orderedCategories[T any](registry *models.Registry, present map[string]T) []string {
	var names, extra []string

	for _, name := range registry.Names() {
		if _, ok := present[name]; ok {
			names = append(names, name)
		}
	}

	for name := range present {
		if registry.Position(name) < 0 {
			extra = append(extra, name)
		}
	}

	slices.Sort(extra)
	return append(names, extra...)
}
