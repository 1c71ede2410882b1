package chunk

import (
	"encoding/json"
	"strings"

	"github.com/prflow/prflow/internal/review"
)

// reviewPayload mirrors the JSON document the classifier is asked to return.
type reviewPayload struct {
	Summary      review.ChangeSummary `json:"summary"`
	Severity     review.Severity      `json:"severity"`
	ReviewPoints []review.Suggestion  `json:"review_points"`
}

// defaultPayload is the safe fallback for malformed classifier output:
// NORMAL severity, empty summary lists, no review points.
func defaultPayload() reviewPayload {
	return reviewPayload{
		Summary: review.ChangeSummary{
			FunctionalChanges:     []string{},
			ArchitecturalChanges:  []string{},
			TechnicalImprovements: []string{},
		},
		Severity:     review.SeverityNormal,
		ReviewPoints: []review.Suggestion{},
	}
}

// parseReviewPayload parses the classifier's content into a reviewPayload.
// The second return value reports whether the content actually parsed; on
// failure the default payload is returned instead of an error, because a
// malformed response must degrade the file, not fail it.
func parseReviewPayload(content string) (reviewPayload, bool) {
	content = stripFences(strings.TrimSpace(content))

	var p reviewPayload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return defaultPayload(), false
	}
	if p.Severity == "" {
		p.Severity = review.SeverityNormal
	}
	if p.Summary.FunctionalChanges == nil {
		p.Summary.FunctionalChanges = []string{}
	}
	if p.Summary.ArchitecturalChanges == nil {
		p.Summary.ArchitecturalChanges = []string{}
	}
	if p.Summary.TechnicalImprovements == nil {
		p.Summary.TechnicalImprovements = []string{}
	}
	if p.ReviewPoints == nil {
		p.ReviewPoints = []review.Suggestion{}
	}
	return p, true
}

// stripFences removes a surrounding markdown code fence, which some models
// add despite instructions.
func stripFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.Join(lines[1:end], "\n")
}
