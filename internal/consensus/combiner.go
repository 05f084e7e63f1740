package consensus

import (
	"log/slog"

	"github.com/spboyer/quorum/internal/metrics"
	"github.com/spboyer/quorum/internal/models"
)

// Combine merges per-method consensus into one score per category. Each
// category's weights are renormalized over the methods that actually scored
// it, so missing or failed methods never drag a category down. Failed methods
// contribute nothing. Categories follow registry order. Scores are rounded
// with [metrics.Round].
func Combine(registry *models.Registry, weights map[string]float64, methods []models.MethodResult) []models.UnifiedScore {
	type contribution struct {
		method string
		weight float64
		mean   float64
	}

	byCategory := map[string][]contribution{}

	for _, m := range methods {
		if m.Failed() || m.Error != "" {
			continue
		}

		w, ok := weights[m.Method]
		if !ok || w <= 0 {
			slog.Warn("Skipping method without a positive weight", "method", m.Method)
			continue
		}

		for _, c := range m.Consensus {
			if c.SampleCount == 0 {
				continue
			}
			byCategory[c.Category] = append(byCategory[c.Category], contribution{method: m.Method, weight: w, mean: c.Mean})
		}
	}

	var out []models.UnifiedScore

	for _, name := range orderedCategories(registry, byCategory) {
		contribs := byCategory[name]

		total := 0.0
		for _, c := range contribs {
			total += c.weight
		}

		u := models.UnifiedScore{Category: name}
		score := 0.0

		for _, c := range contribs {
			nw := c.weight / total
			score += c.mean * nw
			u.ContributingMethods = append(u.ContributingMethods, models.ContributingMethod{
				Method: c.method,
				Weight: nw,
				Mean:   c.mean,
			})
		}

		u.Score = metrics.Round(score)
		out = append(out, u)
	}

	return out
}
