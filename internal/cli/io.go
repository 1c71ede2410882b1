package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prflow/prflow/internal/envelope"
	"github.com/spf13/cobra"
)

// Shared event I/O flags
var (
	flagInput string
	flagOut   string
)

func addEventFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagInput, "input", "", "Event JSON file path (default: stdin)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Response file path (default: stdout)")
}

// readEvent loads the invocation event from --input or stdin.
func readEvent() (json.RawMessage, error) {
	var data []byte
	var err error
	if flagInput != "" {
		data, err = os.ReadFile(flagInput)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return nil, fmt.Errorf("reading event: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("event is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// writeResponse writes the handler response to --out or stdout, keeping
// non-ASCII text unescaped.
func writeResponse(resp envelope.Response) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}

	if flagOut == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(flagOut, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing response file: %w", err)
	}
	return nil
}
