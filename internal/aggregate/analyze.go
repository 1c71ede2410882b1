package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/prflow/prflow/internal/review"
)

// NormalizeLineNumber canonicalizes a reported line number: the literal
// "all" (any case) means the whole file, integer-valued input becomes its
// decimal string, and everything else (including absent input) is N/A.
func NormalizeLineNumber(raw review.FlexString) string {
	s := strings.TrimSpace(string(raw))
	if strings.EqualFold(s, "all") {
		return review.LineThroughout
	}
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n)
	}
	return review.LineNA
}

// Analyze reconciles the flattened file results into one ReviewSummary.
//
// Only primary files contribute to severity counts, category counts, the
// critical/major buckets, and the per-file suggestion map. Reference files
// contribute solely to the reference-file count; their suggestions are
// discarded. Change descriptions are collected from all results, primary
// and reference alike, deduplicated, and sorted.
func Analyze(results []review.FileReviewResult) *review.ReviewSummary {
	s := &review.ReviewSummary{
		SeverityCounts:    map[string]int{},
		CategoryCounts:    map[string]int{},
		CriticalIssues:    []review.Issue{},
		MajorIssues:       []review.Issue{},
		SuggestionsByFile: map[string][]review.Suggestion{},
		ReferenceContext:  map[string][]string{},
	}

	for _, result := range results {
		if !result.IsPrimary {
			s.TotalReferenceFiles++
			continue
		}
		s.TotalPrimaryFiles++
		s.SeverityCounts[string(result.Severity)]++

		// referenced_by entries key the primary file to the union of
		// referencing paths; duplicates survive until render time.
		if len(result.ReferencedBy) > 0 {
			s.ReferenceContext[result.FilePath] = append(
				s.ReferenceContext[result.FilePath], result.ReferencedBy...)
		}

		for _, sg := range result.Suggestions {
			s.TotalIssues++

			category := sg.Category
			if category == "" {
				category = "other"
			}
			s.CategoryCounts[category]++

			line := NormalizeLineNumber(sg.LineNumber)
			sg.LineNumber = review.FlexString(line)

			issue := review.Issue{
				File:        result.FilePath,
				Description: sg.Description,
				LineNumber:  line,
				Suggestion:  sg.SuggestionText,
			}
			switch sg.Severity {
			case review.SeverityCritical:
				s.CriticalIssues = append(s.CriticalIssues, issue)
			case review.SeverityMajor:
				s.MajorIssues = append(s.MajorIssues, issue)
			}

			s.SuggestionsByFile[result.FilePath] = append(
				s.SuggestionsByFile[result.FilePath], sg)
		}
	}

	s.TotalFiles = s.TotalPrimaryFiles + s.TotalReferenceFiles

	// Change summaries come from every result, reference files included.
	functional := map[string]struct{}{}
	architectural := map[string]struct{}{}
	technical := map[string]struct{}{}
	for _, result := range results {
		addAll(functional, result.Summary.FunctionalChanges)
		addAll(architectural, result.Summary.ArchitecturalChanges)
		addAll(technical, result.Summary.TechnicalImprovements)
	}
	s.FunctionalChanges = sortedKeys(functional)
	s.ArchitecturalChanges = sortedKeys(architectural)
	s.TechnicalImprovements = sortedKeys(technical)

	return s
}

func addAll(set map[string]struct{}, items []string) {
	for _, item := range items {
		set[item] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
