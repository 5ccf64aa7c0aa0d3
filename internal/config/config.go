// Package config loads spendsort configuration from environment
// variables.
package config

import (
	"fmt"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds all spendsort configuration, loaded from SPENDSORT_*
// environment variables.
type Config struct {
	// Connector
	Connector       string `koanf:"SPENDSORT_CONNECTOR"`
	SplitwiseID     string `koanf:"SPENDSORT_SPLITWISE_CLIENT_ID"`
	SplitwiseSecret string `koanf:"SPENDSORT_SPLITWISE_CLIENT_SECRET"`
	TokenFile       string `koanf:"SPENDSORT_TOKEN_FILE"`
	Endpoint        string `koanf:"SPENDSORT_ENDPOINT"`
	GroupID         string `koanf:"SPENDSORT_GROUP_ID"`

	// Embedder
	Embedder     string `koanf:"SPENDSORT_EMBEDDER"` // "onnx" or "voyage"
	ModelPath    string `koanf:"SPENDSORT_MODEL_PATH"`
	VocabPath    string `koanf:"SPENDSORT_VOCAB_PATH"`
	ONNXLibPath  string `koanf:"SPENDSORT_ONNX_LIB"`
	VoyageAPIKey string `koanf:"VOYAGE_API_KEY"`
	CachePath    string `koanf:"SPENDSORT_CACHE_PATH"` // "" disables the embedding cache

	// Classification
	Strategy      string  `koanf:"SPENDSORT_STRATEGY"` // "flat" or "centroid"
	HighThreshold float64 `koanf:"SPENDSORT_HIGH_THRESHOLD"`
	LowThreshold  float64 `koanf:"SPENDSORT_LOW_THRESHOLD"`
	ExemplarsPath string  `koanf:"SPENDSORT_EXEMPLARS"` // "" uses the built-in table

	// Output
	Output     string `koanf:"SPENDSORT_OUTPUT"` // "stdout", "file" or "csv"
	OutputPath string `koanf:"SPENDSORT_OUTPUT_PATH"`
	Verbosity  string `koanf:"SPENDSORT_VERBOSITY"` // "minimal" or "full"
	WebhookURL string `koanf:"SPENDSORT_WEBHOOK_URL"`

	// Logging
	LogLevel string `koanf:"SPENDSORT_LOG_LEVEL"`
}

// Load reads configuration from the environment, applies defaults and
// validates the result.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return Config{}, fmt.Errorf("config: loading environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Connector == "" {
		c.Connector = "splitwise"
	}
	if c.Embedder == "" {
		c.Embedder = "onnx"
	}
	if c.ModelPath == "" {
		c.ModelPath = "models/model.onnx"
	}
	if c.VocabPath == "" {
		c.VocabPath = "models/vocab.txt"
	}
	if c.Strategy == "" {
		c.Strategy = "flat"
	}
	if c.HighThreshold == 0 {
		c.HighThreshold = 0.75
	}
	if c.LowThreshold == 0 {
		c.LowThreshold = 0.45
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	if c.Verbosity == "" {
		c.Verbosity = "full"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Embedder {
	case "onnx", "voyage":
	default:
		return fmt.Errorf("config: unknown embedder %q (want onnx or voyage)", c.Embedder)
	}
	switch c.Strategy {
	case "flat", "centroid":
	default:
		return fmt.Errorf("config: unknown strategy %q (want flat or centroid)", c.Strategy)
	}
	switch c.Output {
	case "stdout", "file", "csv":
	default:
		return fmt.Errorf("config: unknown output %q (want stdout, file or csv)", c.Output)
	}
	if c.Output != "stdout" && c.OutputPath == "" {
		return fmt.Errorf("config: SPENDSORT_OUTPUT_PATH required for %s output", c.Output)
	}
	if c.HighThreshold <= c.LowThreshold {
		return fmt.Errorf("config: high threshold %.4f must exceed low threshold %.4f", c.HighThreshold, c.LowThreshold)
	}
	if c.Embedder == "voyage" && c.VoyageAPIKey == "" {
		return fmt.Errorf("config: VOYAGE_API_KEY required for the voyage embedder")
	}
	return nil
}
