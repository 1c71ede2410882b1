package cli

import (
	"fmt"

	"github.com/prflow/prflow/internal/chunk"
	"github.com/prflow/prflow/internal/classifier"
	"github.com/prflow/prflow/internal/config"
	"github.com/prflow/prflow/internal/lang"
	"github.com/spf13/cobra"
)

// Shared config-override flags
var (
	flagModel        string
	flagMaxTokens    int
	flagTemperature  float64
	flagTopP         float64
	flagLanguage     string
	flagPatternsFile string
	flagChunkSize    int
	flagNoRedact     bool
)

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagModel, "model", "", "Classifier model identifier")
	cmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "Maximum classifier response tokens")
	cmd.Flags().Float64Var(&flagTemperature, "temperature", 0, "Classifier sampling temperature")
	cmd.Flags().Float64Var(&flagTopP, "top-p", 0, "Classifier nucleus sampling cutoff")
	cmd.Flags().StringVar(&flagLanguage, "language", "", "Natural language for review text")
	cmd.Flags().StringVar(&flagPatternsFile, "patterns", "", "Extra risk patterns file path")
	cmd.Flags().IntVar(&flagChunkSize, "chunk-size", 0, "Files per chunk for local fan-out")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagMaxTokens > 0 {
		m["max_tokens"] = fmt.Sprintf("%d", flagMaxTokens)
	}
	if flagTemperature > 0 {
		m["temperature"] = fmt.Sprintf("%g", flagTemperature)
	}
	if flagTopP > 0 {
		m["top_p"] = fmt.Sprintf("%g", flagTopP)
	}
	if flagLanguage != "" {
		m["language"] = flagLanguage
	}
	if flagPatternsFile != "" {
		m["patterns_file"] = flagPatternsFile
	}
	if flagChunkSize > 0 {
		m["chunk_size"] = fmt.Sprintf("%d", flagChunkSize)
	}
	if flagNoRedact {
		m["redact_off"] = "true"
	}
	return m
}

// newChunkHandler wires the classifier, config, and extra patterns into a
// chunk handler.
func newChunkHandler() (*chunk.Handler, config.Config, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	extras, err := lang.LoadExtraPatterns(cfg.PatternsFile)
	if err != nil {
		return nil, config.Config{}, err
	}
	client, err := classifier.NewAnthropic()
	if err != nil {
		return nil, config.Config{}, err
	}
	logger := newLogger()
	return &chunk.Handler{
		Processor: chunk.NewProcessor(client, cfg, extras, logger),
		Logger:    logger,
	}, cfg, nil
}

var processCmd = &cobra.Command{
	Use:   "process-chunk",
	Short: "Review one chunk of files and emit its result envelope",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readEvent()
		if err != nil {
			return err
		}
		h, _, err := newChunkHandler()
		if err != nil {
			return err
		}
		return writeResponse(h.Handle(cmd.Context(), raw))
	},
}

func init() {
	addEventFlags(processCmd)
	addConfigFlags(processCmd)
}
