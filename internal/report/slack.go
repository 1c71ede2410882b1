package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prflow/prflow/internal/review"
)

const (
	// maxTitleLen bounds the chat header; longer PR titles are truncated
	// with an ellipsis (the full title is retained elsewhere).
	maxTitleLen = 100
	// maxHighlights bounds the combined critical+major issues shown.
	maxHighlights = 3
	// maxDependencies bounds the file-dependency entries shown.
	maxDependencies = 3
	// maxDescLen is the per-issue description cut-off.
	maxDescLen = 100
)

// SlackText is one mrkdwn or plain_text object.
type SlackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SlackButton is one interactive element.
type SlackButton struct {
	Type  string    `json:"type"`
	Text  SlackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style,omitempty"`
}

// SlackBlock is one block of the message layout.
type SlackBlock struct {
	Type     string        `json:"type"`
	Text     *SlackText    `json:"text,omitempty"`
	Fields   []SlackText   `json:"fields,omitempty"`
	Elements []SlackButton `json:"elements,omitempty"`
}

// SlackMessage is the chat payload: structured blocks plus a plain
// fallback line for clients that cannot render blocks.
type SlackMessage struct {
	Blocks []SlackBlock `json:"blocks"`
	Text   string       `json:"text"`
}

var severityEmoji = map[review.Severity]string{
	review.SeverityCritical: "🚨",
	review.SeverityMajor:    "⚠️",
	review.SeverityMinor:    "📝",
	review.SeverityNormal:   "✅",
}

// Slack renders the chat notification for a finished review.
func Slack(s *review.ReviewSummary, pr review.PRDetails) SlackMessage {
	title := orUnknown(pr.Title, "Unknown PR")
	author := orUnknown(pr.Author, "Unknown Author")
	shortTitle := truncate(title, maxTitleLen)

	overall := overallSeverity(s)

	blocks := []SlackBlock{
		{
			Type: "header",
			Text: &SlackText{
				Type: "plain_text",
				Text: fmt.Sprintf("%s Review: %s", severityEmoji[overall], shortTitle),
			},
		},
		{
			Type: "section",
			Fields: []SlackText{
				{Type: "mrkdwn", Text: fmt.Sprintf("*Author:*\n%s", author)},
				{Type: "mrkdwn", Text: fmt.Sprintf("*Files:*\n%d primary + %d reference",
					s.TotalPrimaryFiles, s.TotalReferenceFiles)},
			},
		},
	}

	blocks = append(blocks, SlackBlock{
		Type: "section",
		Text: &SlackText{Type: "mrkdwn", Text: severityLines(s.SeverityCounts)},
	})

	if len(s.CriticalIssues) > 0 || len(s.MajorIssues) > 0 {
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{Type: "mrkdwn", Text: highlightLines(s)},
		})
	}

	if len(s.ReferenceContext) > 0 {
		blocks = append(blocks, SlackBlock{
			Type: "section",
			Text: &SlackText{Type: "mrkdwn", Text: dependencyLines(s.ReferenceContext)},
		})
	}

	if pr.PRURL != "" && pr.PRURL != "#" {
		blocks = append(blocks, SlackBlock{
			Type: "actions",
			Elements: []SlackButton{
				{
					Type:  "button",
					Text:  SlackText{Type: "plain_text", Text: "Review PR 👀"},
					URL:   pr.PRURL,
					Style: "primary",
				},
			},
		})
	}

	return SlackMessage{
		Blocks: blocks,
		Text: fmt.Sprintf("Code Review completed for PR: %s - Found %d issues in %d primary files",
			shortTitle, s.TotalIssues, s.TotalPrimaryFiles),
	}
}

// overallSeverity picks the header severity: CRITICAL, then MAJOR, then
// MINOR, else NORMAL.
func overallSeverity(s *review.ReviewSummary) review.Severity {
	switch {
	case len(s.CriticalIssues) > 0:
		return review.SeverityCritical
	case len(s.MajorIssues) > 0:
		return review.SeverityMajor
	case s.SeverityCounts[string(review.SeverityMinor)] > 0:
		return review.SeverityMinor
	default:
		return review.SeverityNormal
	}
}

// severityLines lists non-zero severity counts, canonical severities first.
func severityLines(counts map[string]int) string {
	order := []review.Severity{
		review.SeverityCritical,
		review.SeverityMajor,
		review.SeverityMinor,
		review.SeverityNormal,
	}
	var lines []string
	seen := map[string]struct{}{}
	for _, sev := range order {
		seen[string(sev)] = struct{}{}
		if counts[string(sev)] > 0 {
			lines = append(lines, fmt.Sprintf("%s %s: %d", severityEmoji[sev], sev, counts[string(sev)]))
		}
	}
	var rest []string
	for label, n := range counts {
		if _, ok := seen[label]; !ok && n > 0 {
			rest = append(rest, label)
		}
	}
	sort.Strings(rest)
	for _, label := range rest {
		lines = append(lines, fmt.Sprintf("❔ %s: %d", label, counts[label]))
	}
	return strings.Join(lines, "\n")
}

func highlightLines(s *review.ReviewSummary) string {
	combined := append(append([]review.Issue{}, s.CriticalIssues...), s.MajorIssues...)

	lines := []string{"*Critical/Major Issues:*"}
	shown := combined
	if len(shown) > maxHighlights {
		shown = shown[:maxHighlights]
	}
	for _, issue := range shown {
		lines = append(lines, fmt.Sprintf("• %s (Line %s): %s...",
			issue.File, issue.LineNumber, cut(issue.Description, maxDescLen)))
	}
	if len(combined) > maxHighlights {
		lines = append(lines, fmt.Sprintf("_...and %d more critical/major issues_",
			len(combined)-maxHighlights))
	}
	return strings.Join(lines, "\n")
}

func dependencyLines(refs map[string][]string) string {
	files := sortedRefKeys(refs)

	lines := []string{"*File Dependencies:*"}
	shown := files
	if len(shown) > maxDependencies {
		shown = shown[:maxDependencies]
	}
	for _, file := range shown {
		lines = append(lines, fmt.Sprintf("• `%s` - %d related files", file, len(refs[file])))
	}
	if len(files) > maxDependencies {
		lines = append(lines, fmt.Sprintf("_...and %d more files with dependencies_",
			len(files)-maxDependencies))
	}
	return strings.Join(lines, "\n")
}

// cut returns the first n runes of s.
func cut(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// truncate shortens s to n runes with a trailing ellipsis when it is
// actually longer.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
