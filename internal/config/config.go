// Package config loads planpatch.yaml and environment credentials.
// Secrets never live in the config file: API keys and the hosting token
// come from the environment only.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "planpatch.yaml"

// Provider type values.
const (
	ProviderOpenAI           = "openai"
	ProviderAnthropic        = "anthropic"
	ProviderOpenAICompatible = "openai_compatible"
)

// Config is the planpatch.yaml shape.
type Config struct {
	Provider       ProviderConfig `yaml:"provider"`
	MaxAttempts    int            `yaml:"max_attempts"`
	Budget         BudgetConfig   `yaml:"budget"`
	IgnorePatterns []string       `yaml:"ignore_patterns"`
}

// ProviderConfig selects the completion provider and model.
type ProviderConfig struct {
	// Type is one of: "openai" | "anthropic" | "openai_compatible".
	Type        string  `yaml:"type"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
}

// BudgetConfig sets the context compiler ceilings. Zero values fall back
// to the compiler defaults.
type BudgetConfig struct {
	MaxChars      int `yaml:"max_chars"`
	MaxFileChars  int `yaml:"max_file_chars"`
	MaxFileTokens int `yaml:"max_file_tokens"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			Type:        ProviderAnthropic,
			Model:       "claude-sonnet-4-20250514",
			Temperature: 0.2,
		},
		MaxAttempts: 3,
	}
}

// Load reads the config file at path, falling back to DefaultPath and to
// built-in defaults when no file exists.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Provider.Temperature == 0 {
		cfg.Provider.Temperature = 0.2
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the provider selection.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("nil config")
	}

	t := strings.TrimSpace(strings.ToLower(c.Provider.Type))
	switch t {
	case ProviderOpenAI, ProviderAnthropic, ProviderOpenAICompatible:
	default:
		return fmt.Errorf("invalid provider type %q", c.Provider.Type)
	}

	if strings.TrimSpace(c.Provider.Model) == "" {
		return errors.New("missing provider model")
	}

	baseURL := strings.TrimSpace(c.Provider.BaseURL)
	if t == ProviderOpenAICompatible && baseURL == "" {
		return errors.New("base_url is required for openai_compatible")
	}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
		scheme := strings.ToLower(u.Scheme)
		if scheme != "http" && scheme != "https" {
			return fmt.Errorf("invalid base_url scheme %q", u.Scheme)
		}
		if strings.TrimSpace(u.Host) == "" {
			return errors.New("invalid base_url host")
		}
	}

	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("invalid max_attempts %d (must be in [1,10])", c.MaxAttempts)
	}
	return nil
}

// APIKey resolves the provider API key from the environment.
// PLANPATCH_API_KEY wins; otherwise the provider's conventional variable
// is used.
func (c *Config) APIKey() string {
	if key := os.Getenv("PLANPATCH_API_KEY"); key != "" {
		return key
	}
	switch strings.TrimSpace(strings.ToLower(c.Provider.Type)) {
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}

// GitHubToken resolves the hosting credential from the environment.
func GitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}
