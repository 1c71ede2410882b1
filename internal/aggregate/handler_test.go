package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prflow/prflow/internal/classifier"
	"github.com/prflow/prflow/internal/config"
	"github.com/prflow/prflow/internal/review"
)

// fakeClient returns canned content for every invocation.
type fakeClient struct {
	content string
	err     error
	calls   int
}

func (f *fakeClient) Invoke(ctx context.Context, req classifier.Request) (classifier.Response, error) {
	f.calls++
	if f.err != nil {
		return classifier.Response{}, f.err
	}
	return classifier.Response{Content: f.content}, nil
}

func testHandler(client classifier.Client) *Handler {
	return &Handler{
		Client: client,
		Logger: discardLogger(),
		LoadConfig: func() (config.Config, error) {
			return config.Default(), nil
		},
		Now: func() time.Time {
			return time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
		},
	}
}

func chunkEnvelope(t *testing.T, body any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	env, err := json.Marshal(map[string]any{"statusCode": 200, "body": json.RawMessage(b)})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return env
}

func TestHandleMergesSucceededAndRetried(t *testing.T) {
	first := chunkEnvelope(t, map[string]any{
		"results": []map[string]any{
			{
				"file_path":  "auth.py",
				"language":   "Python",
				"severity":   "CRITICAL",
				"is_primary": true,
				"suggestions": []map[string]any{
					{"category": "security_risks", "severity": "CRITICAL",
						"line_number": "12", "description": "SQL injection",
						"suggestion": "use parameters"},
				},
				"summary": map[string]any{
					"functional_changes": []string{"rework login"},
				},
			},
		},
		"pr_details": map[string]any{"title": "Harden auth", "author": "kim", "pr_id": 88},
	})
	retried := chunkEnvelope(t, map[string]any{
		"results": []map[string]any{
			{"file_path": "db.py", "language": "Python", "severity": "NORMAL",
				"is_primary": false},
		},
	})

	event, _ := json.Marshal(map[string]any{
		"classifiedResults": map[string]any{"succeeded": []json.RawMessage{first}},
		"retryResults":      []json.RawMessage{retried},
	})

	client := &fakeClient{content: `{"summary":{"functional_changes":"로그인 로직을 재작업했습니다."}}`}
	resp := testHandler(client).Handle(context.Background(), event)

	if resp.StatusCode != 200 {
		t.Fatalf("StatusCode = %d, want 200 (body: %s)", resp.StatusCode, resp.Body)
	}

	var body struct {
		Summary struct {
			TotalFiles          int            `json:"total_files"`
			TotalPrimaryFiles   int            `json:"total_primary_files"`
			TotalReferenceFiles int            `json:"total_reference_files"`
			TotalIssues         int            `json:"total_issues"`
			SeverityCounts      map[string]int `json:"severity_counts"`
		} `json:"summary"`
		MarkdownReport string           `json:"markdown_report"`
		PRComment      string           `json:"pr_comment"`
		PRDetails      review.PRDetails `json:"pr_details"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}

	if body.Summary.TotalFiles != 2 || body.Summary.TotalPrimaryFiles != 1 ||
		body.Summary.TotalReferenceFiles != 1 {
		t.Errorf("totals = %+v", body.Summary)
	}
	if body.Summary.TotalIssues != 1 {
		t.Errorf("TotalIssues = %d, want 1", body.Summary.TotalIssues)
	}
	if body.Summary.SeverityCounts["CRITICAL"] != 1 {
		t.Errorf("SeverityCounts = %v", body.Summary.SeverityCounts)
	}
	if body.PRDetails.Title != "Harden auth" {
		t.Errorf("PRDetails.Title = %q", body.PRDetails.Title)
	}
	if !strings.Contains(body.MarkdownReport, "auth.py") {
		t.Errorf("markdown report should mention the reviewed file")
	}
	if !strings.Contains(body.MarkdownReport, "2025-01-15 09:30:00") {
		t.Errorf("markdown report should carry the injected timestamp")
	}
	if !strings.Contains(body.PRComment, "found 1 issues") {
		t.Errorf("PR comment should carry the issue count, got: %s", body.PRComment)
	}
	if client.calls != 1 {
		t.Errorf("condensation should run once when changes exist, ran %d times", client.calls)
	}
}

func TestHandleSkipsCondensationWithoutChanges(t *testing.T) {
	env := chunkEnvelope(t, map[string]any{
		"results": []map[string]any{
			{"file_path": "a.go", "severity": "NORMAL", "is_primary": true},
		},
	})
	event, _ := json.Marshal(map[string]any{
		"classifiedResults": map[string]any{"succeeded": env},
	})

	client := &fakeClient{content: `{}`}
	resp := testHandler(client).Handle(context.Background(), event)

	if resp.StatusCode != 200 {
		t.Fatalf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if client.calls != 0 {
		t.Errorf("condensation must be skipped when no changes were collected")
	}
}

func TestHandleCondensationFailureDegrades(t *testing.T) {
	env := chunkEnvelope(t, map[string]any{
		"results": []map[string]any{
			{"file_path": "a.go", "severity": "NORMAL", "is_primary": true,
				"summary": map[string]any{"functional_changes": []string{"x"}}},
		},
	})
	event, _ := json.Marshal(map[string]any{
		"classifiedResults": map[string]any{"succeeded": env},
	})

	client := &fakeClient{err: errors.New("model unavailable")}
	resp := testHandler(client).Handle(context.Background(), event)

	if resp.StatusCode != 200 {
		t.Errorf("condensation failure must not fail aggregation, got %d", resp.StatusCode)
	}
}

func TestHandleInvalidEvent(t *testing.T) {
	resp := testHandler(&fakeClient{}).Handle(context.Background(), json.RawMessage(`{bad`))
	if resp.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("error body must be JSON: %v", err)
	}
	if _, ok := body["error"]; !ok {
		t.Errorf("error body should carry an error field, got %v", body)
	}
}

func TestHandleConfigLoadFailure(t *testing.T) {
	h := testHandler(&fakeClient{})
	h.LoadConfig = func() (config.Config, error) {
		return config.Config{}, errors.New("corrupt config file")
	}
	resp := h.Handle(context.Background(), json.RawMessage(`{}`))
	if resp.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}
}

func TestHandleEmptyEvent(t *testing.T) {
	resp := testHandler(&fakeClient{}).Handle(context.Background(), json.RawMessage(`{}`))
	if resp.StatusCode != 200 {
		t.Fatalf("StatusCode = %d, want 200", resp.StatusCode)
	}
	var body struct {
		Summary struct {
			TotalFiles int `json:"total_files"`
		} `json:"summary"`
		MarkdownReport string `json:"markdown_report"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	if body.Summary.TotalFiles != 0 {
		t.Errorf("TotalFiles = %d, want 0", body.Summary.TotalFiles)
	}
	if body.MarkdownReport == "" {
		t.Errorf("empty input still renders a report skeleton")
	}
}

func TestHandleTwoChunkRetryScenario(t *testing.T) {
	first := chunkEnvelope(t, map[string]any{
		"results": []map[string]any{
			{
				"file_path": "svc.py", "severity": "CRITICAL", "is_primary": true,
				"suggestions": []map[string]any{
					{"category": "security_risks", "severity": "CRITICAL",
						"line_number": "all", "description": "hardcoded credentials",
						"suggestion": "move to env"},
				},
			},
			{
				"file_path": "ctx.py", "severity": "MAJOR", "is_primary": false,
				"suggestions": []map[string]any{
					{"category": "error_prone", "severity": "MAJOR", "line_number": "2"},
				},
			},
		},
	})
	retried := chunkEnvelope(t, map[string]any{
		"results": []map[string]any{
			{
				"file_path": "web.py", "severity": "MINOR", "is_primary": true,
				"suggestions": []map[string]any{
					{"category": "performance_issues", "severity": "MINOR",
						"line_number": 7, "description": "N+1 query"},
				},
			},
		},
	})

	event, _ := json.Marshal(map[string]any{
		"classifiedResults": map[string]any{"succeeded": []json.RawMessage{first}},
		"retryResults":      retried,
	})

	resp := testHandler(&fakeClient{content: `{}`}).Handle(context.Background(), event)
	if resp.StatusCode != 200 {
		t.Fatalf("StatusCode = %d: %s", resp.StatusCode, resp.Body)
	}

	var body struct {
		Summary struct {
			TotalPrimaryFiles   int            `json:"total_primary_files"`
			TotalReferenceFiles int            `json:"total_reference_files"`
			TotalIssues         int            `json:"total_issues"`
			SeverityCounts      map[string]int `json:"severity_counts"`
		} `json:"summary"`
		MarkdownReport string `json:"markdown_report"`
	}
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}

	if body.Summary.TotalPrimaryFiles != 2 || body.Summary.TotalReferenceFiles != 1 {
		t.Errorf("file totals = %d primary / %d reference, want 2/1",
			body.Summary.TotalPrimaryFiles, body.Summary.TotalReferenceFiles)
	}
	if body.Summary.TotalIssues != 2 {
		t.Errorf("TotalIssues = %d, want 2 (reference suggestions excluded)",
			body.Summary.TotalIssues)
	}
	want := map[string]int{"CRITICAL": 1, "MINOR": 1}
	for k, v := range want {
		if body.Summary.SeverityCounts[k] != v {
			t.Errorf("SeverityCounts[%s] = %d, want %d", k, body.Summary.SeverityCounts[k], v)
		}
	}
	if body.Summary.SeverityCounts["MAJOR"] != 0 {
		t.Errorf("reference file severity must not be counted")
	}
	if !strings.Contains(body.MarkdownReport, "svc.py (Line Throughout file)") {
		t.Errorf("critical issue must render with the normalized line sentinel")
	}
}
