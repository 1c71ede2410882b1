package review

// Line-number sentinels produced by aggregation-time normalization. Every
// normalized line number is either a decimal string or one of these.
const (
	LineThroughout = "Throughout file"
	LineNA         = "N/A"
)

// Issue is one critical or major finding, flattened for rendering.
type Issue struct {
	File        string `json:"file"`
	Description string `json:"description"`
	LineNumber  string `json:"line_number"`
	Suggestion  string `json:"suggestion"`
}

// ReviewSummary is the aggregation output and the single source of truth
// for every rendered view. It is built once per invocation and never
// mutated afterwards.
//
// Severity counts, category counts, the critical/major buckets, and the
// per-file suggestion map are derived only from primary files. Reference
// files contribute solely to TotalReferenceFiles. The three change lists
// are deduplicated and sorted lexicographically.
type ReviewSummary struct {
	TotalFiles          int                     `json:"total_files"`
	TotalPrimaryFiles   int                     `json:"total_primary_files"`
	TotalReferenceFiles int                     `json:"total_reference_files"`
	TotalIssues         int                     `json:"total_issues"`
	SeverityCounts      map[string]int          `json:"severity_counts"`
	CategoryCounts      map[string]int          `json:"category_counts"`
	CriticalIssues      []Issue                 `json:"critical_issues"`
	MajorIssues         []Issue                 `json:"major_issues"`
	SuggestionsByFile   map[string][]Suggestion `json:"suggestions_by_file"`
	ReferenceContext    map[string][]string     `json:"reference_context"`

	FunctionalChanges     []string `json:"functional_changes"`
	ArchitecturalChanges  []string `json:"architectural_changes"`
	TechnicalImprovements []string `json:"technical_improvements"`
}

// HasChanges reports whether any change-description list is non-empty.
func (s *ReviewSummary) HasChanges() bool {
	return len(s.FunctionalChanges) > 0 ||
		len(s.ArchitecturalChanges) > 0 ||
		len(s.TechnicalImprovements) > 0
}

// CondensedChanges holds the classifier-condensed change summary shown at
// the top of the Markdown report. Zero values mean condensation was skipped
// or failed.
type CondensedChanges struct {
	Functional    string `json:"functional_changes"`
	Architectural string `json:"architectural_changes"`
	Technical     string `json:"technical_improvements"`
}
