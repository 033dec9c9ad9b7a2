package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planpatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Type != ProviderAnthropic || cfg.MaxAttempts != 3 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Provider.Temperature != 0.2 {
		t.Errorf("temperature = %v", cfg.Provider.Temperature)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
provider:
  type: openai
  model: gpt-4o
  temperature: 0.5
max_attempts: 5
budget:
  max_chars: 30000
ignore_patterns:
  - generated
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.Type != "openai" || cfg.Provider.Model != "gpt-4o" {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.Provider.Temperature != 0.5 || cfg.MaxAttempts != 5 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Budget.MaxChars != 30000 {
		t.Errorf("budget = %+v", cfg.Budget)
	}
	if len(cfg.IgnorePatterns) != 1 || cfg.IgnorePatterns[0] != "generated" {
		t.Errorf("ignore patterns = %v", cfg.IgnorePatterns)
	}
}

func TestLoadRejectsInvalidProvider(t *testing.T) {
	path := writeConfig(t, `
provider:
  type: groq
  model: llama3-70b-8192
`)
	if _, err := Load(path); err == nil {
		t.Error("invalid provider type must be rejected")
	}
}

func TestValidateOpenAICompatibleNeedsBaseURL(t *testing.T) {
	cfg := Default()
	cfg.Provider.Type = ProviderOpenAICompatible
	cfg.Provider.Model = "some-model"
	if err := cfg.Validate(); err == nil {
		t.Error("openai_compatible without base_url must be rejected")
	}

	cfg.Provider.BaseURL = "https://gateway.example.com/v1"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate = %v", err)
	}
}

func TestValidateRejectsBadBaseURL(t *testing.T) {
	cfg := Default()
	cfg.Provider.BaseURL = "ftp://example.com"
	if err := cfg.Validate(); err == nil {
		t.Error("non-http scheme must be rejected")
	}
}

func TestAPIKeyPrecedence(t *testing.T) {
	t.Setenv("PLANPATCH_API_KEY", "top")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic")

	cfg := Default()
	if got := cfg.APIKey(); got != "top" {
		t.Errorf("APIKey = %q", got)
	}

	t.Setenv("PLANPATCH_API_KEY", "")
	if got := cfg.APIKey(); got != "anthropic" {
		t.Errorf("APIKey = %q", got)
	}
}
