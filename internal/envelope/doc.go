// Package envelope implements the {statusCode, body} invocation wrapper
// shared by the chunk processing and aggregation handlers. Bodies are JSON
// documents carried as strings; inbound bodies may also arrive already
// decoded, and DecodeBody accepts both shapes.
package envelope
