// Package config loads mailtriage settings from mailtriage.yaml and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read from the working directory when present.
const DefaultConfigPath = "mailtriage.yaml"

// Config holds all mailtriage configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Remote generation
	LLM LLMConfig `yaml:"llm"`

	// Input and output tables
	IO IOConfig `yaml:"io"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Run metrics
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig controls the end-of-run metrics dump.
type MetricsConfig struct {
	// Textfile is written in Prometheus text format when set.
	Textfile string `yaml:"textfile"`
}

// IOConfig names the default input and output files.
// Positional CLI arguments take precedence.
type IOConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "mailtriage",
		Version: "0.3.0",

		LLM: LLMConfig{
			Timeout:     "60s",
			MaxTokens:   300,
			Temperature: 0.0,
		},

		IO: IOConfig{
			Input:  "emails.csv",
			Output: "email_agent_output.csv",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file is not an error; defaults plus environment overrides are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// LLM API key from environment (later entries win)
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = ProviderGemini
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = ProviderOpenAI
	}

	if model := os.Getenv("MAILTRIAGE_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if url := os.Getenv("MAILTRIAGE_BASE_URL"); url != "" {
		c.LLM.BaseURL = url
	}
	if level := os.Getenv("MAILTRIAGE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if path := os.Getenv("MAILTRIAGE_METRICS_FILE"); path != "" {
		c.Metrics.Textfile = path
	}
}

// GetLLMTimeout returns the per-request timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// Validate validates the configuration.
// A missing API key is valid: the run falls back to rule extraction.
func (c *Config) Validate() error {
	if c.LLM.Provider != "" && !IsValidProvider(c.LLM.Provider) {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}
	if c.LLM.MaxTokens < 0 {
		return fmt.Errorf("llm.max_tokens must not be negative, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2], got %v", c.LLM.Temperature)
	}
	if c.LLM.Timeout != "" {
		if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
			return fmt.Errorf("invalid llm.timeout %q: %w", c.LLM.Timeout, err)
		}
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	return nil
}
