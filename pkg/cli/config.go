// Package cli provides CLI-specific logic including configuration loading.
package cli

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the .repoaudit.yml configuration file.
type Config struct {
	Version  string         `yaml:"version"`
	Backend  BackendConfig  `yaml:"backend"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
}

// BackendConfig locates the audit backend.
type BackendConfig struct {
	Endpoint string   `yaml:"endpoint"`
	Timeout  Duration `yaml:"timeout"`
}

// Duration parses "30s"-style strings from YAML. A bare number is read
// as seconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("cli: invalid duration: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("cli: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// AnalysisConfig holds default analysis submission settings.
type AnalysisConfig struct {
	ModelPreference string `yaml:"model_preference"`
	HostingProvider string `yaml:"hosting_provider"`
	AIKeyEnv        string `yaml:"ai_key_env"`
}

// AIKey resolves the user-supplied LLM key from the configured
// environment variable. Empty when unset.
func (a AnalysisConfig) AIKey() string {
	return os.Getenv(a.AIKeyEnv)
}

// OutputConfig controls report output settings.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// LoadConfig reads and parses a .repoaudit.yml configuration file.
// If path is empty, it looks for .repoaudit.yml in the current directory.
// If the default config file is not found, sensible defaults are returned.
// If an explicitly specified config file is not found, an error is returned.
func LoadConfig(path string) (*Config, error) {
	useDefault := path == ""
	if useDefault {
		path = ".repoaudit.yml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && useDefault {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("cli: reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cli: parsing config %s: %w", path, err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults matching the
// documented .repoaudit.yml schema.
func DefaultConfig() *Config {
	cfg := &Config{Version: "1"}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in zero-value fields with sensible defaults.
func applyDefaults(cfg *Config) {
	if cfg.Backend.Endpoint == "" {
		cfg.Backend.Endpoint = "http://localhost:8000"
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = Duration(30 * time.Second)
	}
	if cfg.Analysis.ModelPreference == "" {
		cfg.Analysis.ModelPreference = "gemini-2.5-flash"
	}
	if cfg.Analysis.AIKeyEnv == "" {
		cfg.Analysis.AIKeyEnv = "REPOAUDIT_AI_API_KEY"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "terminal"
	}
}
