package report

import (
	"fmt"
	"strings"

	"github.com/prflow/prflow/internal/review"
)

// maxMajorInComment bounds how many major issues the PR comment lists
// before truncating with a "N more" line.
const maxMajorInComment = 5

// PRComment renders the compact summary posted back to the pull request.
func PRComment(s *review.ReviewSummary) string {
	lines := []string{
		"# Code Review Summary",
		fmt.Sprintf("\nReviewed %d primary files (with %d reference files) and found %d issues.",
			s.TotalPrimaryFiles, s.TotalReferenceFiles, s.TotalIssues),

		"\n## Severity Breakdown",
		"| Severity | Count |",
		"|----------|-------|",
	}

	for _, severity := range sortedCountKeys(s.SeverityCounts) {
		lines = append(lines, fmt.Sprintf("| %s | %d |", severity, s.SeverityCounts[severity]))
	}

	if len(s.CriticalIssues) > 0 {
		lines = append(lines, "\n### Critical Issues Found")
		for _, issue := range s.CriticalIssues {
			lines = append(lines,
				fmt.Sprintf("\n- **%s** (Line %s)", issue.File, issue.LineNumber),
				fmt.Sprintf("  - %s", issue.Description),
				fmt.Sprintf("  - Suggestion: %s", issue.Suggestion),
			)
		}
	}

	if len(s.MajorIssues) > 0 {
		lines = append(lines, "\n### Major Issues Found")
		shown := s.MajorIssues
		if len(shown) > maxMajorInComment {
			shown = shown[:maxMajorInComment]
		}
		for _, issue := range shown {
			lines = append(lines,
				fmt.Sprintf("\n- **%s** (Line %s)", issue.File, issue.LineNumber),
				fmt.Sprintf("  - %s", issue.Description),
			)
		}
		if len(s.MajorIssues) > maxMajorInComment {
			lines = append(lines, fmt.Sprintf("\n... and %d more major issues.",
				len(s.MajorIssues)-maxMajorInComment))
		}
	}

	return strings.Join(lines, "\n")
}
