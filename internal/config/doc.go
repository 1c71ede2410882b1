// Package config loads and merges prflow configuration from defaults, a
// JSON config file, PRFLOW_* environment variables, and CLI flag overrides,
// in that precedence order. The recognized keys mirror the external
// parameter store namespace: model, max_tokens, temperature, top_p,
// aws_region, and language, plus local-only keys for redaction, extra
// pattern rules, and fan-out chunk sizing.
package config
