// Package report renders the three output views of a ReviewSummary: the
// full Markdown report, the compact PR comment, and the Slack block
// payload. Every renderer is a pure function of the summary and the PR
// details; nothing here calls out or keeps state, so the same summary
// always renders to the same bytes.
package report
