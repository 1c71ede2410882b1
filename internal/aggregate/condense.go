package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prflow/prflow/internal/classifier"
	"github.com/prflow/prflow/internal/config"
	"github.com/prflow/prflow/internal/review"
)

// condenseMaxTokens bounds the condensation call; two sentences per
// category never need more.
const condenseMaxTokens = 1000

// CondenseChanges asks the classifier to compress the collected change
// bullet points into at most two sentences per category, written in the
// configured language with proper nouns and technical terms kept verbatim.
// Any failure, transport or malformed response, falls back to empty
// strings; condensation never fails the aggregation.
func CondenseChanges(ctx context.Context, client classifier.Client, cfg config.Config, s *review.ReviewSummary, logger *slog.Logger) review.CondensedChanges {
	if client == nil {
		return review.CondensedChanges{}
	}

	resp, err := client.Invoke(ctx, classifier.Request{
		Model:       cfg.Model,
		MaxTokens:   condenseMaxTokens,
		Temperature: 0.7,
		TopP:        0.9,
		System:      "You are an expert reviewer who summarizes concisely, in two sentences or fewer.",
		Prompt:      buildCondensePrompt(s, cfg.Language),
	})
	if err != nil {
		logger.Error("condensing change summary failed", "error", err)
		return review.CondensedChanges{}
	}

	var parsed struct {
		Summary review.CondensedChanges `json:"summary"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Content)), &parsed); err != nil {
		logger.Error("condensed summary was not valid JSON", "error", err)
		return review.CondensedChanges{}
	}
	return parsed.Summary
}

func buildCondensePrompt(s *review.ReviewSummary, language string) string {
	var b strings.Builder

	b.WriteString("Summarize the following changes per category in five sentences or fewer.\n")
	b.WriteString("Original changes:\n\n")

	b.WriteString("🔄 Functional Changes:\n")
	for _, c := range s.FunctionalChanges {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	b.WriteString("\n🏗 Architectural Changes:\n")
	for _, c := range s.ArchitecturalChanges {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	b.WriteString("\n🔧 Technical Improvements:\n")
	for _, c := range s.TechnicalImprovements {
		fmt.Fprintf(&b, "- %s\n", c)
	}

	b.WriteString(`
Summarize the changes above in this format:

{
    "summary": {
        "functional_changes": "functional changes in two sentences or fewer",
        "architectural_changes": "architectural changes in two sentences or fewer",
        "technical_improvements": "technical improvements in two sentences or fewer"
    }
}

`)
	fmt.Fprintf(&b, "Write each summary in %s, keeping technical terms and proper nouns exactly as written.", language)

	return b.String()
}
