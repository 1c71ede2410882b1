package cli

import (
	"encoding/json"
	"fmt"

	"github.com/prflow/prflow/internal/aggregate"
	"github.com/prflow/prflow/internal/chunk"
	"github.com/prflow/prflow/internal/config"
	"github.com/prflow/prflow/internal/fanout"
	"github.com/prflow/prflow/internal/review"
	"github.com/spf13/cobra"
)

// runEvent is the input for a local end-to-end pass: the PR metadata plus
// every file descriptor, not yet batched into chunks.
type runEvent struct {
	PRDetails review.PRDetails  `json:"pr_details"`
	Files     []chunk.FileInput `json:"files"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Review a full PR locally: fan out chunks, then aggregate",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readEvent()
		if err != nil {
			return err
		}
		var ev runEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			return fmt.Errorf("decoding run event: %w", err)
		}

		h, cfg, err := newChunkHandler()
		if err != nil {
			return err
		}
		logger := newLogger()

		out := fanout.Run(cmd.Context(), h, ev.Files, ev.PRDetails, cfg.ChunkSize, logger)
		aggEvent, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("encoding aggregation event: %w", err)
		}

		agg := &aggregate.Handler{
			Client: h.Processor.Client(),
			Logger: logger,
			LoadConfig: func() (config.Config, error) {
				return cfg, nil
			},
		}
		return writeResponse(agg.Handle(cmd.Context(), aggEvent))
	},
}

func init() {
	addEventFlags(runCmd)
	addConfigFlags(runCmd)
}
