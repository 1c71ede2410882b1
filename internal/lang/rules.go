package lang

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
)

// ExtraPatterns maps a pattern category to additional regular expressions
// supplied by the user. Categories outside the fixed three are allowed and
// show up in extraction results under their own key.
type ExtraPatterns map[string][]string

// LoadExtraPatterns loads an extra-patterns file from disk. Returns nil and
// nil error if path is empty. Every expression is validated at load time so
// extraction never has to deal with a bad pattern.
func LoadExtraPatterns(path string) (ExtraPatterns, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patterns file: %w", err)
	}
	var extras ExtraPatterns
	if err := json.Unmarshal(data, &extras); err != nil {
		return nil, fmt.Errorf("parsing patterns file: %w", err)
	}
	for cat, sources := range extras {
		for _, s := range sources {
			if _, err := regexp.Compile(s); err != nil {
				return nil, fmt.Errorf("invalid pattern %q in category %s: %w", s, cat, err)
			}
		}
	}
	return extras, nil
}
