// Package redact strips likely secrets from file content before it leaves
// the process in a classifier prompt. Redaction is heuristic and opt-out
// via the redact_off config key.
package redact
