package chunk

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/prflow/prflow/internal/envelope"
)

// Event is the invocation shape for chunk processing. The body may arrive
// as a JSON string or an already-decoded document.
type Event struct {
	Body json.RawMessage `json:"body"`
}

type eventBody struct {
	Chunks []Input `json:"chunks"`
}

// Handler wires a Processor to the invocation envelope contract.
type Handler struct {
	Processor *Processor
	Logger    *slog.Logger
}

// Handle processes the first chunk of the event and wraps the result in a
// {statusCode, body} envelope. Per-file failures degrade inside Process;
// only a malformed chunk envelope (or a panic escaping the processor)
// produces a 500.
func (h *Handler) Handle(ctx context.Context, raw json.RawMessage) (resp envelope.Response) {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("chunk handler panicked", "panic", r)
			resp = envelope.ErrorWith(fmt.Errorf("processing chunk: %v", r),
				map[string]any{"chunk_id": nil})
		}
	}()

	in, err := decodeEvent(raw)
	if err != nil {
		logger.Error("decoding chunk event failed", "error", err)
		return envelope.ErrorWith(err, map[string]any{"chunk_id": nil})
	}

	result := h.Processor.Process(ctx, in)

	return envelope.OK(result)
}

// decodeEvent extracts the first chunk from the event. A missing chunks
// list yields an empty Input, which processes to an empty result rather
// than an error.
func decodeEvent(raw json.RawMessage) (Input, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Input{}, fmt.Errorf("decoding event: %w", err)
	}
	body, err := envelope.DecodeBody(ev.Body)
	if err != nil {
		return Input{}, fmt.Errorf("decoding event body: %w", err)
	}
	var eb eventBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return Input{}, fmt.Errorf("decoding chunk body: %w", err)
	}
	if len(eb.Chunks) == 0 {
		return Input{}, nil
	}
	return eb.Chunks[0], nil
}
