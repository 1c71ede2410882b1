package chunk

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/prflow/prflow/internal/review"
)

func testHandler(client *scriptedClient) *Handler {
	return &Handler{Processor: testProcessor(client), Logger: discardLogger()}
}

func TestHandleSuccessEnvelope(t *testing.T) {
	event := json.RawMessage(`{"body":{"chunks":[{
		"chunk_id": 3,
		"pr_details": {"title": "Refactor cache"},
		"files": [{"path": "cache.go", "content": "package cache"}]
	}]}}`)

	resp := testHandler(&scriptedClient{}).Handle(context.Background(), event)

	if resp.StatusCode != 200 {
		t.Fatalf("StatusCode = %d, want 200 (body: %s)", resp.StatusCode, resp.Body)
	}
	var out review.ChunkResult
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("body must be a JSON string holding the result: %v", err)
	}
	if string(out.ChunkID) != "3" {
		t.Errorf("ChunkID = %q, want 3", out.ChunkID)
	}
	if out.PRDetails.Title != "Refactor cache" {
		t.Errorf("pr_details must round-trip, got %+v", out.PRDetails)
	}
	if len(out.Results) != 1 || !out.Results[0].IsPrimary {
		t.Errorf("Results = %+v", out.Results)
	}
}

func TestHandleStringBody(t *testing.T) {
	inner := `{"chunks":[{"chunk_id":"s","files":[{"path":"a.go","content":"x"}]}]}`
	event, _ := json.Marshal(map[string]any{"body": inner})

	resp := testHandler(&scriptedClient{}).Handle(context.Background(), event)

	if resp.StatusCode != 200 {
		t.Fatalf("string bodies must decode, got %d: %s", resp.StatusCode, resp.Body)
	}
}

func TestHandleMalformedEvent(t *testing.T) {
	for _, raw := range []string{`{bad`, `{"body":"not json"}`} {
		resp := testHandler(&scriptedClient{}).Handle(context.Background(), json.RawMessage(raw))
		if resp.StatusCode != 500 {
			t.Errorf("Handle(%q) StatusCode = %d, want 500", raw, resp.StatusCode)
			continue
		}
		var body map[string]any
		if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
			t.Fatalf("error body must be JSON: %v", err)
		}
		if body["chunk_id"] != nil {
			t.Errorf("error body chunk_id = %v, want null", body["chunk_id"])
		}
		if _, ok := body["error"]; !ok {
			t.Errorf("error body should carry an error field")
		}
	}
}

func TestHandleEmptyChunks(t *testing.T) {
	resp := testHandler(&scriptedClient{}).Handle(context.Background(),
		json.RawMessage(`{"body":{"chunks":[]}}`))
	if resp.StatusCode != 200 {
		t.Fatalf("empty chunk list is not an error, got %d", resp.StatusCode)
	}
	var out review.ChunkResult
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(out.Results) != 0 {
		t.Errorf("expected empty results, got %v", out.Results)
	}
}
