// Package fanout runs the review pipeline end to end locally: it batches
// files into chunks, invokes the chunk handler concurrently with bounded
// goroutines, retries failed chunks once, and shapes the envelopes into
// the aggregation event. In the hosted deployment this role belongs to the
// external orchestrator; this package reproduces it for development and CI.
package fanout
