package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/prflow/prflow/internal/classifier"
	"github.com/prflow/prflow/internal/config"
	"github.com/prflow/prflow/internal/envelope"
	"github.com/prflow/prflow/internal/report"
	"github.com/prflow/prflow/internal/review"
)

// Event is the aggregator invocation shape: the envelopes of chunks that
// succeeded on first try, plus results for chunks that failed and were
// retried externally. Either field may hold a single envelope or a list.
type Event struct {
	ClassifiedResults struct {
		Succeeded json.RawMessage `json:"succeeded"`
	} `json:"classifiedResults"`
	RetryResults json.RawMessage `json:"retryResults"`
}

// Handler runs one aggregation pass: extract, analyze, condense, render.
type Handler struct {
	Client classifier.Client
	Logger *slog.Logger

	// LoadConfig supplies the aggregation config; a load failure is fatal
	// to the invocation. Defaults to config.Load(nil).
	LoadConfig func() (config.Config, error)

	// Now is the report timestamp source, overridable in tests.
	Now func() time.Time
}

type responseBody struct {
	Summary          summaryOut          `json:"summary"`
	MarkdownReport   string              `json:"markdown_report"`
	PRComment        string              `json:"pr_comment"`
	SlackMessage     report.SlackMessage `json:"slack_message"`
	PRDetails        review.PRDetails    `json:"pr_details"`
	ReferenceContext map[string][]string `json:"reference_context"`
}

type summaryOut struct {
	TotalFiles          int            `json:"total_files"`
	TotalPrimaryFiles   int            `json:"total_primary_files"`
	TotalReferenceFiles int            `json:"total_reference_files"`
	TotalIssues         int            `json:"total_issues"`
	SeverityCounts      map[string]int `json:"severity_counts"`
	CategoryCounts      map[string]int `json:"category_counts"`
}

// Handle merges all chunk envelopes (retried chunks are ingested exactly
// like first-try successes, with no chunk_id deduplication), builds the
// ReviewSummary, and renders the three views. Any failure reaching this
// boundary becomes a statusCode 500 envelope; partial success is never
// reported as 200.
func (h *Handler) Handle(ctx context.Context, raw json.RawMessage) (resp envelope.Response) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("aggregation handler panicked", "panic", r)
			resp = envelope.Error(fmt.Errorf("aggregating results: %v", r))
		}
	}()

	loadConfig := h.LoadConfig
	if loadConfig == nil {
		loadConfig = func() (config.Config, error) { return config.Load(nil) }
	}
	cfg, err := loadConfig()
	if err != nil {
		logger.Error("loading config failed", "error", err)
		return envelope.Error(fmt.Errorf("loading config: %w", err))
	}

	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		logger.Error("decoding aggregation event failed", "error", err)
		return envelope.Error(fmt.Errorf("decoding event: %w", err))
	}

	envelopes := SplitEnvelopes(ev.ClassifiedResults.Succeeded)
	envelopes = append(envelopes, SplitEnvelopes(ev.RetryResults)...)

	results := ExtractFileResults(envelopes, logger)
	prDetails := ExtractPRDetails(envelopes, logger)

	summary := Analyze(results)

	var condensed review.CondensedChanges
	if summary.HasChanges() {
		condensed = CondenseChanges(ctx, h.Client, cfg, summary, logger)
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	md := report.Markdown(summary, prDetails, condensed, now())

	return envelope.OK(responseBody{
		Summary: summaryOut{
			TotalFiles:          summary.TotalFiles,
			TotalPrimaryFiles:   summary.TotalPrimaryFiles,
			TotalReferenceFiles: summary.TotalReferenceFiles,
			TotalIssues:         summary.TotalIssues,
			SeverityCounts:      summary.SeverityCounts,
			CategoryCounts:      summary.CategoryCounts,
		},
		MarkdownReport:   md,
		PRComment:        report.PRComment(summary),
		SlackMessage:     report.Slack(summary, prDetails),
		PRDetails:        prDetails,
		ReferenceContext: summary.ReferenceContext,
	})
}
