package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Provider identifies which credential backs model discovery and generation.
type Provider string

const (
	// ProviderOpenRouter is the primary provider: full catalog discovery
	// plus OpenAI-compatible generation.
	ProviderOpenRouter Provider = "openrouter"

	// ProviderAnthropic is the fallback single-provider path, used only
	// when no OpenRouter key is configured. No catalog discovery; model
	// selection runs against a static table.
	ProviderAnthropic Provider = "anthropic"
)

// ConfigError signals a fatal, non-retryable configuration problem:
// no usable credential, or no workflow/agent resolution possible.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "configuration error"
	}
	return "configuration error: " + e.Reason
}

// Config holds the application configuration. It is loaded fully before
// any component is constructed; nothing reads the environment lazily.
type Config struct {
	OpenRouterAPIKey string
	AnthropicAPIKey  string
	GoogleAPIKey     string
	CatalogBaseURL   string
	Rules            *RulesConfig
	ConfigDir        string
}

// FileConfig represents the structure of ~/.ia-framework/config.yaml
type FileConfig struct {
	APIKeys APIKeysConfig `yaml:"api_keys"`
	Catalog CatalogConfig `yaml:"catalog"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	OpenRouter string `yaml:"openrouter"`
	Anthropic  string `yaml:"anthropic"`
	Google     string `yaml:"google"`
}

// CatalogConfig holds catalog endpoint configuration from file.
type CatalogConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Load reads configuration from config files and environment variables.
// Environment variables take precedence over file configuration.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	fileConfig := loadFileConfig(filepath.Join(configDir, "config.yaml"))

	cfg := &Config{
		OpenRouterAPIKey: getEnvOrDefault("OPENROUTER_API_KEY", fileConfig.APIKeys.OpenRouter),
		AnthropicAPIKey:  getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		GoogleAPIKey:     getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		CatalogBaseURL:   getEnvOrDefault("CATALOG_BASE_URL", fileConfig.Catalog.BaseURL),
		ConfigDir:        configDir,
	}

	rulesPath := filepath.Join(configDir, "routing.yaml")
	if _, err := os.Stat(rulesPath); err == nil {
		rules, err := LoadRules(rulesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load routing rules: %w", err)
		}
		cfg.Rules = rules
	} else {
		cfg.Rules = DefaultRules()
	}

	return cfg, nil
}

// LoadWithRulesFile loads config with a specific routing rules file.
func LoadWithRulesFile(rulesPath string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	rules, err := LoadRules(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load routing rules from %s: %w", rulesPath, err)
	}
	cfg.Rules = rules

	return cfg, nil
}

// Provider returns the active provider. The primary OpenRouter credential
// is always preferred; the Anthropic credential is used only when the
// primary is absent. With neither present the process cannot serve any
// request, which is a ConfigError.
func (c *Config) Provider() (Provider, error) {
	if c.OpenRouterAPIKey != "" {
		return ProviderOpenRouter, nil
	}
	if c.AnthropicAPIKey != "" {
		return ProviderAnthropic, nil
	}
	return "", &ConfigError{Reason: "no API key configured (set OPENROUTER_API_KEY or ANTHROPIC_API_KEY)"}
}

// HasProvider returns true if the API key for the given provider is configured.
func (c *Config) HasProvider(name string) bool {
	switch Provider(name) {
	case ProviderOpenRouter:
		return c.OpenRouterAPIKey != ""
	case ProviderAnthropic:
		return c.AnthropicAPIKey != ""
	default:
		return false
	}
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg // Return empty config if file doesn't exist
	}

	_ = yaml.Unmarshal(data, cfg) // Ignore parse errors, use defaults
	return cfg
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".ia-framework")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
