package chunk

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/prflow/prflow/internal/classifier"
	"github.com/prflow/prflow/internal/config"
	"github.com/prflow/prflow/internal/lang"
	"github.com/prflow/prflow/internal/redact"
	"github.com/prflow/prflow/internal/review"
)

// FileInput is one file descriptor in a chunk.
type FileInput struct {
	Path      string `json:"path"`
	Content   string `json:"content"`
	IsPrimary bool   `json:"is_primary"`
}

// UnmarshalJSON defaults is_primary to true when the field is absent.
func (f *FileInput) UnmarshalJSON(data []byte) error {
	type alias FileInput
	aux := alias{IsPrimary: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*f = FileInput(aux)
	return nil
}

// Input is one unit of parallel work: a batch of files plus the shared PR
// context (which carries per-request config overrides).
type Input struct {
	ChunkID   review.FlexString `json:"chunk_id"`
	PRDetails review.PRDetails  `json:"pr_details"`
	Files     []FileInput       `json:"files"`
}

// Processor reviews every file in a chunk through the classifier.
type Processor struct {
	client classifier.Client
	cfg    config.Config
	extras lang.ExtraPatterns
	logger *slog.Logger
}

// NewProcessor creates a Processor. The classifier client and base config
// are injected so tests can substitute fakes.
func NewProcessor(client classifier.Client, cfg config.Config, extras lang.ExtraPatterns, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{client: client, cfg: cfg, extras: extras, logger: logger}
}

// Client returns the classifier client the processor was built with.
func (p *Processor) Client() classifier.Client {
	return p.client
}

// Process reviews a whole chunk. A failure on one file substitutes a
// degraded stub result and continues; only chunk-level setup failures are
// surfaced by the handler, not from here.
func (p *Processor) Process(ctx context.Context, in Input) review.ChunkResult {
	cfg := config.Merge(p.cfg, in.PRDetails.Config)

	results := make([]review.FileReviewResult, 0, len(in.Files))
	for _, f := range in.Files {
		related := relatedFiles(in.Files, f.Path)
		result, err := p.processFile(ctx, cfg, f, related)
		if err != nil {
			p.logger.Error("processing file failed",
				"file", f.Path, "error", err)
			result = review.StubResult(f.Path, f.IsPrimary)
		}
		results = append(results, result)
	}

	// Chunk severity considers primary files only.
	var primarySuggestions []review.Suggestion
	for _, r := range results {
		if r.IsPrimary {
			primarySuggestions = append(primarySuggestions, r.Suggestions...)
		}
	}

	return review.ChunkResult{
		ChunkID:       in.ChunkID,
		ChunkSeverity: review.DetermineSeverity(primarySuggestions),
		Results:       results,
		PRDetails:     in.PRDetails,
	}
}

// processFile runs detection, pattern extraction, prompt construction, and
// classification for one file. Transport errors from the classifier
// propagate; malformed classifier content degrades to the default payload.
func (p *Processor) processFile(ctx context.Context, cfg config.Config, f FileInput, related []string) (review.FileReviewResult, error) {
	language := lang.Detect(f.Path)

	content := f.Content
	if !cfg.RedactOff {
		content = redact.Secrets(content)
	}

	patterns := lang.ExtractPatterns(content, p.extras)
	prompt := buildReviewPrompt(f.Path, content, language, patterns, f.IsPrimary, related, cfg.Language)

	resp, err := p.client.Invoke(ctx, classifier.Request{
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		System:      systemPrompt(cfg.Language),
		Prompt:      prompt,
	})
	if err != nil {
		return review.FileReviewResult{}, err
	}

	payload, ok := parseReviewPayload(resp.Content)
	if !ok {
		p.logger.Warn("classifier response was not valid JSON, using defaults",
			"file", f.Path)
	}

	suggestions := make([]review.Suggestion, len(payload.ReviewPoints))
	for i, s := range payload.ReviewPoints {
		s.File = f.Path
		suggestions[i] = s
	}

	return review.FileReviewResult{
		FilePath:     f.Path,
		Language:     language,
		Summary:      payload.Summary,
		Severity:     payload.Severity,
		Suggestions:  suggestions,
		IsPrimary:    f.IsPrimary,
		ReferencedBy: related,
	}, nil
}

// relatedFiles returns every other file path in the chunk, regardless of
// primary or reference status.
func relatedFiles(files []FileInput, current string) []string {
	var related []string
	for _, f := range files {
		if f.Path != current {
			related = append(related, f.Path)
		}
	}
	return related
}
