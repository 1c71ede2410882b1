package cli

import (
	"fmt"

	"github.com/prflow/prflow/internal/aggregate"
	"github.com/prflow/prflow/internal/classifier"
	"github.com/prflow/prflow/internal/config"
	"github.com/spf13/cobra"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Merge chunk result envelopes into one review summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readEvent()
		if err != nil {
			return err
		}
		client, err := classifier.NewAnthropic()
		if err != nil {
			return err
		}
		h := &aggregate.Handler{
			Client: client,
			Logger: newLogger(),
			LoadConfig: func() (config.Config, error) {
				cfg, err := config.Load(buildOverrides())
				if err != nil {
					return config.Config{}, fmt.Errorf("loading config: %w", err)
				}
				return cfg, nil
			},
		}
		return writeResponse(h.Handle(cmd.Context(), raw))
	},
}

func init() {
	addEventFlags(aggregateCmd)
	addConfigFlags(aggregateCmd)
}
