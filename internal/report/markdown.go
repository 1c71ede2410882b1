package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/prflow/prflow/internal/review"
)

// Markdown renders the full review report. Pure function of its inputs;
// the timestamp is passed in so callers control it.
func Markdown(s *review.ReviewSummary, pr review.PRDetails, condensed review.CondensedChanges, now time.Time) string {
	title := orUnknown(pr.Title, "Unknown PR")
	author := orUnknown(pr.Author, "Unknown Author")

	lines := []string{
		fmt.Sprintf("# 🧾 Code Review Report: %s", title),
		fmt.Sprintf("\nGenerated at: %s", now.Format("2006-01-02 15:04:05")),

		"\n## Overview",
		fmt.Sprintf("- Pull Request by: %s", author),
		fmt.Sprintf("- Primary Files Reviewed: %d", s.TotalPrimaryFiles),
		fmt.Sprintf("- Reference Files: %d", s.TotalReferenceFiles),
		fmt.Sprintf("- Total Issues Found: %d", s.TotalIssues),
	}

	if s.HasChanges() {
		lines = append(lines,
			"\n## Key Changes Summary",
			"\n### 🔄 Functional Changes",
			condensed.Functional,
			"\n### 🏗 Architectural Changes",
			condensed.Architectural,
			"\n### 🔧 Technical Improvements",
			condensed.Technical,
		)
	}

	lines = append(lines,
		"\n## Severity Summary",
		"| Severity | Count |",
		"|----------|-------|",
	)
	for _, severity := range sortedCountKeys(s.SeverityCounts) {
		lines = append(lines, fmt.Sprintf("| %s | %d |", severity, s.SeverityCounts[severity]))
	}

	lines = append(lines,
		"\n## Category Summary",
		"| Category | Count |",
		"|----------|-------|",
	)
	for _, category := range sortedCountKeys(s.CategoryCounts) {
		lines = append(lines, fmt.Sprintf("| %s | %d |", titleCase(category), s.CategoryCounts[category]))
	}

	if len(s.CriticalIssues) > 0 {
		lines = append(lines, "\n## Critical Issues")
		lines = append(lines, issueSections(s.CriticalIssues)...)
	}
	if len(s.MajorIssues) > 0 {
		lines = append(lines, "\n## Major Issues")
		lines = append(lines, issueSections(s.MajorIssues)...)
	}

	lines = append(lines,
		"\n## Detailed Review by File",
		"\n| File | Line | Category | Severity | Description | Suggestion |",
		"|------|------|-----------|-----------|--------------|-------------|",
	)

	for _, row := range unifiedRows(s) {
		category := row.suggestion.Category
		if category == "" {
			category = "Other"
		}
		severity := row.suggestion.Severity
		if severity == "" {
			severity = review.SeverityNormal
		}
		lines = append(lines, fmt.Sprintf("| %s | %s | %s | %s | %s | %s |",
			row.file,
			row.suggestion.LineNumber,
			titleCase(category),
			severity,
			escapePipes(orNA(row.suggestion.Description)),
			escapePipes(orNA(row.suggestion.SuggestionText)),
		))
	}

	lines = append(lines, "\n### File Dependencies")
	for _, file := range sortedRefKeys(s.ReferenceContext) {
		refs := s.ReferenceContext[file]
		if len(refs) == 0 {
			continue
		}
		lines = append(lines,
			fmt.Sprintf("\n#### %s", file),
			"Related Files:",
		)
		for _, ref := range dedupSorted(refs) {
			lines = append(lines, fmt.Sprintf("- %s", ref))
		}
	}

	lines = append(lines,
		"\n## Additional Information",
		"- Review Date: "+now.Format("2006-01-02"),
		"- Base Branch: "+orUnknown(pr.BaseBranch, "Unknown"),
		"- Head Branch: "+orUnknown(pr.HeadBranch, "Unknown"),
		fmt.Sprintf("- Repository: %s", orUnknown(pr.Repository, "Unknown")),
		fmt.Sprintf("- PR Number: %s", orUnknown(string(pr.PRID), "Unknown")),
	)

	lines = append(lines,
		"\n---",
		"🤖 _This report was automatically generated by prflow_ 🧾",
	)

	return strings.Join(lines, "\n")
}

func issueSections(issues []review.Issue) []string {
	var lines []string
	for _, issue := range issues {
		lines = append(lines,
			fmt.Sprintf("\n### %s (Line %s)", issue.File, issue.LineNumber),
			fmt.Sprintf("**Issue:** %s", issue.Description),
			fmt.Sprintf("**Suggestion:** %s", issue.Suggestion),
		)
	}
	return lines
}

type tableRow struct {
	file       string
	suggestion review.Suggestion
}

// unifiedRows flattens every file's suggestions into one list sorted by
// file path, then line number: numeric lines ascend, "Throughout file"
// sorts after everything numeric, and other non-numeric values sit between
// them; the raw line string stabilizes remaining ties.
func unifiedRows(s *review.ReviewSummary) []tableRow {
	var rows []tableRow
	for file, suggestions := range s.SuggestionsByFile {
		for _, sg := range suggestions {
			rows = append(rows, tableRow{file: file, suggestion: sg})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.file != b.file {
			return a.file < b.file
		}
		at := string(a.suggestion.LineNumber) == review.LineThroughout
		bt := string(b.suggestion.LineNumber) == review.LineThroughout
		if at != bt {
			return bt
		}
		an := lineSortValue(string(a.suggestion.LineNumber))
		bn := lineSortValue(string(b.suggestion.LineNumber))
		if an != bn {
			return an < bn
		}
		return a.suggestion.LineNumber < b.suggestion.LineNumber
	})

	return rows
}

// lineSortValue parses a line number for ordering; non-numeric values sort
// after every numeric one.
func lineSortValue(line string) int64 {
	if n, err := strconv.ParseInt(line, 10, 64); err == nil {
		return n
	}
	return int64(1) << 62
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orUnknown(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func sortedCountKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedRefKeys(refs map[string][]string) []string {
	keys := make([]string, 0, len(refs))
	for k := range refs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func dedupSorted(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	var out []string
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest, treating any non-letter as a word boundary.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
