package chunk

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/prflow/prflow/internal/lang"
)

// systemPrompt instructs the classifier to behave as a senior reviewer and
// answer in the configured natural language.
func systemPrompt(language string) string {
	return fmt.Sprintf(
		"You are a senior code reviewer. Focus on concrete, actionable feedback. "+
			"Return your response in the requested JSON format, written in %s.",
		language,
	)
}

const responseFormat = `{
    "summary": {
        "functional_changes": [
            "Added new capability A",
            "Modified existing behavior B"
        ],
        "architectural_changes": [
            "Introduced design pattern X",
            "Restructured module Y"
        ],
        "technical_improvements": [
            "Applied performance optimization",
            "Improved code quality"
        ]
    },
    "severity": "CRITICAL/MAJOR/MINOR/NORMAL",
    "review_points": [
        {
            "category": "security/performance/style/logic",
            "severity": "CRITICAL",
            "line_number": "42",
            "description": "SQL injection vulnerability found",
            "suggestion": "Use parameterized queries"
        }
    ]
}`

// buildReviewPrompt assembles the review prompt for one file: its status,
// content, detected risk patterns, and sibling files in the same chunk.
// Pure formatting; there is no failure mode.
func buildReviewPrompt(filePath, content, language string, patterns map[string][]lang.Match, isPrimary bool, relatedFiles []string, reviewLang string) string {
	var b strings.Builder

	status := "Reference File"
	if isPrimary {
		status = "Primary File"
	}

	b.WriteString("You are an expert code reviewer. Review the code changed in this pull request.\n\n")
	fmt.Fprintf(&b, "File Status: %s\n", status)
	fmt.Fprintf(&b, "File Path: %s\n\n", filePath)
	fmt.Fprintf(&b, "Code Changes:\n```%s\n%s\n```\n\n", language, content)

	b.WriteString("Detected Patterns:\n")
	for _, cat := range lang.Categories {
		matches := patterns[cat]
		if len(matches) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", titleCase(strings.ReplaceAll(cat, "_", " ")))
		for _, m := range matches {
			fmt.Fprintf(&b, "- Line %d: %s\n", m.LineNumber, m.LineContent)
		}
	}

	if len(relatedFiles) > 0 {
		b.WriteString("\nRelated Files:\n")
		for _, f := range relatedFiles {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	b.WriteString("\nAnalyze the main changes in this file by category and respond in JSON.\n\n")
	b.WriteString("Response format:\n")
	b.WriteString(responseFormat)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Write every description in %s, but keep file, method, and class names exactly as they appear in the source.\n", reviewLang)
	b.WriteString("Only include changes actually present in the code.\n")

	return b.String()
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
