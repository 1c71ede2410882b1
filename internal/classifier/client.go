package classifier

import (
	"context"
)

// Request contains the prompt and sampling parameters for one classifier call.
type Request struct {
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
	System      string
	Prompt      string
}

// Response contains the raw classifier output. Content is the concatenated
// text blocks; whether it parses as JSON is the caller's problem.
type Response struct {
	Content    string
	TokensUsed int
}

// Client is the classifier capability injected into the chunk processor and
// the aggregator's change condenser. Transport failures are returned as
// errors; malformed content is not an error at this layer.
type Client interface {
	Invoke(ctx context.Context, req Request) (Response, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (Response, error)

func (f ClientFunc) Invoke(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
