// Package classifier abstracts the external LLM service behind a single
// Invoke method. The Anthropic implementation talks to the messages API
// over HTTP with bounded exponential backoff on rate limits; auth failures
// and other transport errors propagate to the caller unmasked.
package classifier
