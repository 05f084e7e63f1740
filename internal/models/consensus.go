package models

// MethodConsensus is the statistical reduction of one method's samples for a
// single category. It only exists when SampleCount > 0.
type MethodConsensus struct {
	Category     string  `json:"category"`
	Method       string  `json:"method"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	StdDev       float64 `json:"std_dev"`
	Confidence95 float64 `json:"confidence_95"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	SampleCount  int     `json:"sample_count"`
}

// ContributingMethod is one method's share of a unified score. Weight is the
// renormalized weight, not the nominal one.
type ContributingMethod struct {
	Method string  `json:"method"`
	Weight float64 `json:"weight"`
	Mean   float64 `json:"mean"`
}

// UnifiedScore is the cross-method combined score for a category.
type UnifiedScore struct {
	Category            string               `json:"category"`
	Score               float64              `json:"score"`
	ContributingMethods []ContributingMethod `json:"contributing_methods"`
}

// WeightSum returns the sum of the contributing weights; 1.0 within floating
// tolerance for any score built by the combiner.
func (u UnifiedScore) WeightSum() float64 {
	total := 0.0
	for _, c := range u.ContributingMethods {
		total += c.Weight
	}
	return total
}
