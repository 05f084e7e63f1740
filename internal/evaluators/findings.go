package evaluators

import (
	"regexp"
	"strings"

	"github.com/spboyer/quorum/internal/models"
)

// findingRE matches lines like
//
//	RECOMMENDATION [HIGH]: no input validation on /login => validate request bodies
var findingRE = regexp.MustCompile(`(?im)^\s*[-*]?\s*RECOMMENDATION\s*\[\s*(CRITICAL|HIGH|MEDIUM|LOW)\s*\]\s*:\s*(.+?)\s*=>\s*(.+?)\s*$`)

// ParseFindings pulls recommendation lines out of a free-form response. Every
// finding is attributed to category.
func ParseFindings(text, category string) []models.Finding {
	var findings []models.Finding

	for _, m := range findingRE.FindAllStringSubmatch(text, -1) {
		priority, err := models.ParsePriority(m[1])
		if err != nil {
			continue
		}

		issue := strings.TrimSpace(m[2])
		if issue == "" {
			continue
		}

		findings = append(findings, models.Finding{
			Category: category,
			Priority: priority,
			Issue:    issue,
			Action:   strings.TrimSpace(m[3]),
		})
	}

	return findings
}
