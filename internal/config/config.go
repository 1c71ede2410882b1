package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// DefaultModel is the classifier model used when no override is supplied.
const DefaultModel = "apac.anthropic.claude-3-5-sonnet-20241022-v2:0"

// Config holds the reviewer configuration. The same shape travels inside
// pr_details.config on chunk events, so every field carries the external
// key name as its JSON tag.
type Config struct {
	Model        string  `json:"model,omitempty"`
	MaxTokens    int     `json:"max_tokens,omitempty"`
	Temperature  float64 `json:"temperature,omitempty"`
	TopP         float64 `json:"top_p,omitempty"`
	AWSRegion    string  `json:"aws_region,omitempty"`
	Language     string  `json:"language,omitempty"`
	RedactOff    bool    `json:"redact_off,omitempty"`
	PatternsFile string  `json:"patterns_file,omitempty"`
	ChunkSize    int     `json:"chunk_size,omitempty"`
}

// Default returns a Config with the documented defaults applied.
func Default() Config {
	return Config{
		Model:       DefaultModel,
		MaxTokens:   4096,
		Temperature: 0.7,
		TopP:        0.9,
		Language:    "Korean",
		ChunkSize:   3,
	}
}

// ConfigDir returns the platform-appropriate config directory for prflow.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "prflow"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "prflow"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "prflow"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "prflow"), nil
	default:
		return filepath.Join(home, ".config", "prflow"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil
// error if the file doesn't exist; a present-but-unreadable or corrupt file
// is a hard error that callers must treat as fatal.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	cfg = Merge(cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

// Merge overlays non-zero fields of src onto dst and returns the result.
// Chunk events carry per-request config in pr_details.config; the processor
// merges that over its base config with this.
func Merge(dst, src Config) Config {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.MaxTokens > 0 {
		dst.MaxTokens = src.MaxTokens
	}
	// Zero temperature/top_p are indistinguishable from unset in JSON, so
	// zero never overrides. A literal 0.0 must be set via flags.
	if src.Temperature > 0 {
		dst.Temperature = src.Temperature
	}
	if src.TopP > 0 {
		dst.TopP = src.TopP
	}
	if src.AWSRegion != "" {
		dst.AWSRegion = src.AWSRegion
	}
	if src.Language != "" {
		dst.Language = src.Language
	}
	if src.RedactOff {
		dst.RedactOff = true
	}
	if src.PatternsFile != "" {
		dst.PatternsFile = src.PatternsFile
	}
	if src.ChunkSize > 0 {
		dst.ChunkSize = src.ChunkSize
	}
	return dst
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("PRFLOW_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("PRFLOW_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("PRFLOW_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}
	if v := os.Getenv("PRFLOW_TOP_P"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.TopP = f
		}
	}
	if v := os.Getenv("PRFLOW_AWS_REGION"); v != "" {
		cfg.AWSRegion = v
	}
	if v := os.Getenv("PRFLOW_LANGUAGE"); v != "" {
		cfg.Language = v
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	for key, v := range overrides {
		if v == "" {
			continue
		}
		// Best effort: flag parsing already validated shapes.
		_ = SetField(cfg, key, v)
	}
}

// SetField sets a single config field by its external key name.
// Returns an error if the key is unknown or the value has the wrong shape.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "model":
		cfg.Model = value
	case "max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("max_tokens must be an integer: %w", err)
		}
		cfg.MaxTokens = n
	case "temperature":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("temperature must be a number: %w", err)
		}
		cfg.Temperature = f
	case "top_p":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("top_p must be a number: %w", err)
		}
		cfg.TopP = f
	case "aws_region":
		cfg.AWSRegion = value
	case "language":
		cfg.Language = value
	case "redact_off":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("redact_off must be a boolean: %w", err)
		}
		cfg.RedactOff = b
	case "patterns_file":
		cfg.PatternsFile = value
	case "chunk_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("chunk_size must be an integer: %w", err)
		}
		cfg.ChunkSize = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
