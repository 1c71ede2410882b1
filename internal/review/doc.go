// Package review defines the shared data model for the PR review pipeline:
// severities with their fixed CRITICAL > MAJOR > MINOR > NORMAL ranking,
// per-file review results, chunk results, and the PR metadata that rides
// along with every chunk.
//
// Producers (the chunk processor) and consumers (the aggregator) exchange
// these types as JSON. Upstream payloads are loosely typed, so fields that
// arrive as string, number, or null are modeled with FlexString and
// defaulting happens in UnmarshalJSON rather than at call sites.
package review
