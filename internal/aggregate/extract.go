package aggregate

import (
	"encoding/json"
	"log/slog"

	"github.com/prflow/prflow/internal/envelope"
	"github.com/prflow/prflow/internal/review"
)

// chunkBody is the slice of a chunk envelope body the aggregator reads.
type chunkBody struct {
	Results   []review.FileReviewResult `json:"results"`
	PRDetails *review.PRDetails         `json:"pr_details"`
}

// SplitEnvelopes normalizes the aggregator input: a single envelope or a
// list of envelopes, covering both single-invocation and fan-out shapes.
// Anything else yields no envelopes.
func SplitEnvelopes(raw json.RawMessage) []json.RawMessage {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		return []json.RawMessage{raw}
	}
	return nil
}

// ExtractFileResults flattens every file result out of the given chunk
// envelopes. Malformed envelopes are skipped with a log line, never an
// error: an entirely unparseable input produces an empty result set.
func ExtractFileResults(envelopes []json.RawMessage, logger *slog.Logger) []review.FileReviewResult {
	var results []review.FileReviewResult
	for i, raw := range envelopes {
		body, ok := decodeChunkBody(raw)
		if !ok {
			logger.Warn("skipping malformed chunk envelope", "index", i)
			continue
		}
		results = append(results, body.Results...)
	}
	return results
}

// ExtractPRDetails returns the pr_details from the first envelope carrying
// one. Details are assumed identical across chunks, not verified.
func ExtractPRDetails(envelopes []json.RawMessage, logger *slog.Logger) review.PRDetails {
	for i, raw := range envelopes {
		body, ok := decodeChunkBody(raw)
		if !ok {
			logger.Warn("skipping malformed chunk envelope", "index", i)
			continue
		}
		if body.PRDetails != nil {
			return *body.PRDetails
		}
	}
	return review.PRDetails{}
}

func decodeChunkBody(raw json.RawMessage) (chunkBody, bool) {
	var env struct {
		Body json.RawMessage `json:"body"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Body) == 0 {
		return chunkBody{}, false
	}
	body, err := envelope.DecodeBody(env.Body)
	if err != nil {
		return chunkBody{}, false
	}
	var cb chunkBody
	if err := json.Unmarshal(body, &cb); err != nil {
		return chunkBody{}, false
	}
	return cb, true
}
