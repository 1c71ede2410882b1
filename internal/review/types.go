package review

import (
	"encoding/json"
	"fmt"

	"github.com/prflow/prflow/internal/config"
)

// Severity represents the importance of a finding.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityMajor    Severity = "MAJOR"
	SeverityMinor    Severity = "MINOR"
	SeverityNormal   Severity = "NORMAL"
)

// SeverityRank returns a numeric rank for comparison (higher = more severe).
// Unknown or empty severities rank as NORMAL.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityMajor:
		return 3
	case SeverityMinor:
		return 2
	default:
		return 1
	}
}

// DetermineSeverity returns the maximum severity across suggestions.
// An empty input yields NORMAL, as do suggestions with unrecognized labels.
func DetermineSeverity(suggestions []Suggestion) Severity {
	max := SeverityNormal
	maxRank := 1
	for _, s := range suggestions {
		// Unrecognized labels rank 1 and are never selected over the
		// NORMAL starting point.
		if r := SeverityRank(s.Severity); r > maxRank {
			maxRank = r
			max = s.Severity
		}
	}
	return max
}

// FlexString decodes a JSON string, number, or null into a plain string.
// Line numbers and chunk IDs arrive in all three shapes from upstream
// producers; the raw form is preserved until normalization.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*f = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexString(num.String())
		return nil
	}
	return fmt.Errorf("cannot decode %s as string or number", string(data))
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// Suggestion is one reviewer finding, immutable once parsed.
type Suggestion struct {
	Category       string     `json:"category"`
	Severity       Severity   `json:"severity"`
	LineNumber     FlexString `json:"line_number"`
	Description    string     `json:"description"`
	SuggestionText string     `json:"suggestion"`
	File           string     `json:"file"`
}

// ChangeSummary groups the free-text change descriptions reported for a file.
type ChangeSummary struct {
	FunctionalChanges     []string `json:"functional_changes"`
	ArchitecturalChanges  []string `json:"architectural_changes"`
	TechnicalImprovements []string `json:"technical_improvements"`
}

// Empty reports whether no change text was captured in any category.
func (c ChangeSummary) Empty() bool {
	return len(c.FunctionalChanges) == 0 &&
		len(c.ArchitecturalChanges) == 0 &&
		len(c.TechnicalImprovements) == 0
}

// FileReviewResult is one file's review outcome. Primary files are the ones
// actually changed in the PR; reference files are context only and never
// contribute to severity or issue counts.
type FileReviewResult struct {
	FilePath     string        `json:"file_path"`
	Language     string        `json:"language"`
	Summary      ChangeSummary `json:"summary"`
	Severity     Severity      `json:"severity"`
	Suggestions  []Suggestion  `json:"suggestions"`
	IsPrimary    bool          `json:"is_primary"`
	ReferencedBy []string      `json:"referenced_by"`
}

// UnmarshalJSON defaults is_primary to true when the field is absent,
// matching the producer contract.
func (r *FileReviewResult) UnmarshalJSON(data []byte) error {
	type alias FileReviewResult
	aux := alias{IsPrimary: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = FileReviewResult(aux)
	return nil
}

// StubResult returns the degraded placeholder emitted when processing a
// file fails: Unknown language, NORMAL severity, no suggestions, with the
// file's declared primary flag preserved.
func StubResult(path string, isPrimary bool) FileReviewResult {
	return FileReviewResult{
		FilePath: path,
		Language: "Unknown",
		Summary: ChangeSummary{
			FunctionalChanges:     []string{},
			ArchitecturalChanges:  []string{},
			TechnicalImprovements: []string{},
		},
		Severity:     SeverityNormal,
		Suggestions:  []Suggestion{},
		IsPrimary:    isPrimary,
		ReferencedBy: []string{},
	}
}

// PRDetails carries pull-request metadata, duplicated into every chunk and
// assumed identical across chunks.
type PRDetails struct {
	Title      string        `json:"title,omitempty"`
	Author     string        `json:"author,omitempty"`
	PRURL      string        `json:"pr_url,omitempty"`
	BaseBranch string        `json:"base_branch,omitempty"`
	HeadBranch string        `json:"head_branch,omitempty"`
	Repository string        `json:"repository,omitempty"`
	PRID       FlexString    `json:"pr_id,omitempty"`
	Config     config.Config `json:"config,omitempty"`
}

// ChunkResult is one parallel worker's output: every file result in the
// chunk plus the rollup severity across its primary files' suggestions.
type ChunkResult struct {
	ChunkID       FlexString         `json:"chunk_id"`
	ChunkSeverity Severity           `json:"chunk_severity"`
	Results       []FileReviewResult `json:"results"`
	PRDetails     PRDetails          `json:"pr_details"`
}
