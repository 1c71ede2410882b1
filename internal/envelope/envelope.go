package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Response is the {statusCode, body} wrapper every handler returns. Body is
// a JSON document encoded as a string, matching the invocation contract.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// EncodeBody marshals v without HTML escaping so non-ASCII review text is
// preserved rather than escaped.
func EncodeBody(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding body: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// DecodeBody returns the JSON document held in an envelope body. The body
// may be a JSON string containing a document, or the document itself.
func DecodeBody(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return json.RawMessage(s), nil
	}
	return raw, nil
}

// OK wraps v in a 200 response.
func OK(v any) Response {
	body, err := EncodeBody(v)
	if err != nil {
		return Error(err)
	}
	return Response{StatusCode: 200, Body: body}
}

// Error wraps err in a 500 response with an {error: message} body.
// Partial successes are never reported this way; a 500 means the whole
// invocation failed.
func Error(err error) Response {
	return ErrorWith(err, nil)
}

// ErrorWith wraps err in a 500 response, including any extra fields in the
// body alongside the error message.
func ErrorWith(err error, extra map[string]any) Response {
	payload := map[string]any{"error": err.Error()}
	for k, v := range extra {
		payload[k] = v
	}
	body, encErr := EncodeBody(payload)
	if encErr != nil {
		body = fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return Response{StatusCode: 500, Body: body}
}
