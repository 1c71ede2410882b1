// Package aggregate merges the chunk processors' envelopes into one
// consistent ReviewSummary and renders the three output views from it.
//
// Input tolerance is deliberate: envelopes may arrive singly or as lists,
// bodies may be JSON strings or decoded documents, and malformed envelopes
// are skipped rather than failing the invocation. Retried chunk results
// are ingested exactly like first-try successes; if an original and its
// retry both appear, both are counted (documented behavior, not a defect
// this layer resolves).
package aggregate
