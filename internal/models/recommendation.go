package models

import (
	"fmt"
	"strings"
)

// Priority orders recommendations. Lower rank sorts first.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Rank returns the sort rank of p: CRITICAL=0, HIGH=1, MEDIUM=2, LOW=3.
// Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// ParsePriority parses a priority name case-insensitively.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if p.Rank() > 3 {
		return "", fmt.Errorf("unknown priority '%s'", s)
	}
	return p, nil
}

// RecommendationSource identifies which trigger produced a recommendation.
type RecommendationSource string

const (
	SourceGradeFloor RecommendationSource = "grade_floor"
	SourceThreshold  RecommendationSource = "threshold"
	SourceEvaluator  RecommendationSource = "evaluator"
)

// Recommendation is a prioritized, human-actionable finding.
type Recommendation struct {
	Priority Priority             `json:"priority"`
	Category string               `json:"category"`
	Score    float64              `json:"score"`
	Grade    string               `json:"grade"`
	Issue    string               `json:"issue"`
	Action   string               `json:"action"`
	Source   RecommendationSource `json:"source"`
	Method   string               `json:"method,omitempty"`
}

// Finding is a recommendation supplied directly by an evaluator in its
// response.
type Finding struct {
	Category string   `json:"category"`
	Priority Priority `json:"priority" mapstructure:"priority"`
	Issue    string   `json:"issue" mapstructure:"issue"`
	Action   string   `json:"action" mapstructure:"action"`
}
