// Prflow reviews pull request files through an LLM classifier in parallel
// chunks and aggregates the results into a Markdown report, a PR comment,
// and a Slack payload.
//
// Usage:
//
//	prflow process-chunk --input chunk.json   # review one chunk of files
//	prflow aggregate --input results.json     # merge chunk results into views
//	prflow run --input pr.json                # fan out a whole PR locally
//	prflow config show                        # print effective configuration
package main

import (
	"os"

	"github.com/prflow/prflow/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
