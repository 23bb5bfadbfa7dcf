// Package config loads the application configuration from a YAML file
// with environment variable expansion, so secrets like the database URL
// and API key stay out of the file itself.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/pressgen/pressgen/cache"
	"github.com/pressgen/pressgen/generate"
	"github.com/pressgen/pressgen/llm"
	"github.com/pressgen/pressgen/observe"
	"github.com/pressgen/pressgen/store"
)

// Validation errors.
var (
	ErrMissingDatabaseURL = errors.New("config: database.url is required")
	ErrMissingLLMBaseURL  = errors.New("config: llm.base_url is required")
)

// AppConfig is the full application configuration.
type AppConfig struct {
	Database store.Config      `yaml:"database"`
	Redis    cache.RedisConfig `yaml:"redis"`
	LLM      llm.Config        `yaml:"llm"`
	Generate generate.Config   `yaml:"generate"`
	Observe  observe.Config    `yaml:"observe"`
}

// Load reads configuration from a YAML file. A .env file next to the
// working directory is applied first if present, then ${VAR} references
// in the YAML are expanded from the environment.
func Load(path string) (*AppConfig, error) {
	// Missing .env is fine; explicit env vars still apply.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg AppConfig
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Observe.ServiceName == "" {
		c.Observe.ServiceName = "pressgen"
	}
	if c.Observe.Logging.Level == "" {
		c.Observe.Logging.Level = "info"
	}
}

// Validate checks the fields no default can supply.
func (c *AppConfig) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	if c.LLM.BaseURL == "" {
		return ErrMissingLLMBaseURL
	}
	return c.Observe.Validate()
}
