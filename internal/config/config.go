package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level acct.yaml configuration.
type Config struct {
	Business   BusinessConfig   `yaml:"business"`
	Engine     EngineConfig     `yaml:"engine"`
	Oracle     OracleConfig     `yaml:"oracle"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Git        GitConfig        `yaml:"git"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
}

// EngineConfig controls posting synthesis. Zero account IDs are resolved
// against the chart of accounts at startup.
type EngineConfig struct {
	CounterAccountID  int `yaml:"counter_account_id,omitempty"`
	FallbackExpenseID int `yaml:"fallback_expense_account_id,omitempty"`
	FallbackIncomeID  int `yaml:"fallback_income_account_id,omitempty"`
	MaxSuggestions    int `yaml:"max_suggestions"`
}

// OracleConfig selects and tunes the text-classification oracle.
type OracleConfig struct {
	Provider       string `yaml:"provider"` // gemini, rules, bayes
	Model          string `yaml:"model,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the oracle timeout as a duration.
func (o OracleConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// ThresholdsConfig controls what happens to accepted suggestions.
type ThresholdsConfig struct {
	AutoConfirm float64 `yaml:"auto_confirm"`
	ReviewFlag  float64 `yaml:"review_flag"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads an acct.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
		},
		Engine: EngineConfig{
			MaxSuggestions: 3,
		},
		Oracle: OracleConfig{
			Provider:       "gemini",
			Model:          "gemini-2.0-flash",
			TimeoutSeconds: 30,
		},
		Thresholds: ThresholdsConfig{
			AutoConfirm: 0.95,
			ReviewFlag:  0.70,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Accounting Assistant",
			AuthorEmail: "assistant@localhost",
		},
	}
}
