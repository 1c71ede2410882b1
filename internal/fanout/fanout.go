package fanout

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/prflow/prflow/internal/chunk"
	"github.com/prflow/prflow/internal/envelope"
	"github.com/prflow/prflow/internal/review"
)

// maxConcurrency limits parallel chunk invocations.
const maxConcurrency = 4

// Output is the aggregation event assembled from a fan-out pass: first-try
// successes under classifiedResults, retried chunk envelopes alongside.
type Output struct {
	ClassifiedResults Classified          `json:"classifiedResults"`
	RetryResults      []envelope.Response `json:"retryResults"`
}

// Classified wraps the envelopes of chunks that succeeded on first try.
type Classified struct {
	Succeeded []envelope.Response `json:"succeeded"`
}

// Split batches files into chunks of at most size files, preserving order.
func Split(files []chunk.FileInput, size int) [][]chunk.FileInput {
	if size <= 0 {
		size = 1
	}
	var batches [][]chunk.FileInput
	for start := 0; start < len(files); start += size {
		end := start + size
		if end > len(files) {
			end = len(files)
		}
		batches = append(batches, files[start:end])
	}
	return batches
}

// Run fans the files out over concurrent chunk invocations and collects
// their envelopes into an aggregation event. Chunks that fail on first try
// are invoked once more; the retry's envelope lands in RetryResults
// whatever its outcome, mirroring the external retry channel.
func Run(ctx context.Context, h *chunk.Handler, files []chunk.FileInput, pr review.PRDetails, size int, logger *slog.Logger) Output {
	if logger == nil {
		logger = slog.Default()
	}

	batches := Split(files, size)
	responses := make([]envelope.Response, len(batches))
	chunkIDs := make([]string, len(batches))

	p := pool.New().WithMaxGoroutines(maxConcurrency)
	for i, batch := range batches {
		p.Go(func() {
			chunkIDs[i] = uuid.New().String()
			responses[i] = invoke(ctx, h, chunkIDs[i], pr, batch)
		})
	}
	p.Wait()

	var out Output
	out.ClassifiedResults.Succeeded = []envelope.Response{}
	out.RetryResults = []envelope.Response{}

	for i, resp := range responses {
		if resp.StatusCode == 200 {
			out.ClassifiedResults.Succeeded = append(out.ClassifiedResults.Succeeded, resp)
			continue
		}
		logger.Warn("chunk failed, retrying once", "chunk_id", chunkIDs[i])
		retry := invoke(ctx, h, chunkIDs[i], pr, batches[i])
		if retry.StatusCode != 200 {
			logger.Error("chunk failed after retry", "chunk_id", chunkIDs[i])
		}
		out.RetryResults = append(out.RetryResults, retry)
	}

	return out
}

func invoke(ctx context.Context, h *chunk.Handler, chunkID string, pr review.PRDetails, files []chunk.FileInput) envelope.Response {
	event := map[string]any{
		"body": map[string]any{
			"chunks": []chunk.Input{{
				ChunkID:   review.FlexString(chunkID),
				PRDetails: pr,
				Files:     files,
			}},
		},
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return envelope.Error(err)
	}
	return h.Handle(ctx, raw)
}
