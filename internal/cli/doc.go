// Package cli wires together the Cobra command tree for the prflow binary.
//
// It defines the root command and all subcommands (process-chunk, aggregate,
// run, config, version), binds flags, reads configuration, and connects the
// chunk processor and result aggregator to event JSON on stdin/stdout.
package cli
