package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"holostream/internal/config/domain"
	"holostream/internal/shared/validation"
)

// RuntimeConfig holds all runtime configuration from CLI flags, environment
// variables, the .env file and the YAML config file
type RuntimeConfig struct {
	// API Configuration
	APIKey  string `yaml:"api_key"`
	APIPort string `yaml:"api_port"`

	// Development and demo modes
	DevMode  bool `yaml:"dev_mode"`
	DemoMode bool `yaml:"demo_mode"`

	// Logging Configuration
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`

	// History database; empty disables history
	DBPath           string        `yaml:"db_path"`
	HistoryRetention time.Duration `yaml:"history_retention"`

	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`

	Prometheus domain.CollectorConfig `yaml:"prometheus"`
	Streaming  domain.StreamingConfig `yaml:"streaming"`

	// Config file path
	ConfigPath string `yaml:"-"`
}

// DefaultRuntimeConfig returns the configuration used when nothing is set
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		APIPort:          "8080",
		LogLevel:         "INFO",
		LogFormat:        "text",
		LogOutput:        "stdout",
		HistoryRetention: 24 * time.Hour,
		Environment:      "development",
		Version:          "1.0.0",
		Prometheus:       domain.DefaultCollectorConfig(),
		Streaming:        domain.DefaultStreamingConfig(),
	}
}

// LoadRuntimeConfig loads configuration with precedence:
// CLI flags > env vars > .env file > YAML file > defaults.
// The .env file must already be loaded into the environment. flags holds
// only the flags the user set, keyed by flag name.
func LoadRuntimeConfig(ctx context.Context, configPath string, lookupEnv func(string) (string, bool), flags map[string]string) (*RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()

	if configPath != "" {
		if err := LoadFile(configPath, cfg); err != nil {
			return nil, err
		}
		cfg.ConfigPath = configPath
	}

	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.ApplyFlags(flags); err != nil {
		return nil, err
	}

	cfg.fillDefaults()

	if err := validation.Check(ctx, cfg, "config"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables. The first key of an
// option that is set wins.
func (c *RuntimeConfig) ApplyEnv(lookupEnv func(string) (string, bool)) error {
	for _, opt := range Options {
		for _, key := range opt.Env {
			value, ok := lookupEnv(key)
			if !ok || value == "" {
				continue
			}
			if err := opt.Set(c, value); err != nil {
				return &ConfigError{Field: key, Message: fmt.Sprintf("invalid value %q for %s: %v", value, key, err)}
			}
			break
		}
	}
	return nil
}

// ApplyFlags overrides fields from explicitly set CLI flags
func (c *RuntimeConfig) ApplyFlags(flags map[string]string) error {
	for _, opt := range Options {
		value, ok := flags[opt.Flag]
		if !ok {
			continue
		}
		if err := opt.Set(c, value); err != nil {
			return &ConfigError{Field: opt.Flag, Message: fmt.Sprintf("invalid value %q for --%s: %v", value, opt.Flag, err)}
		}
	}
	return nil
}

func (c *RuntimeConfig) fillDefaults() {
	if c.Prometheus.Instance == "" {
		c.Prometheus.Instance = DefaultInstance(c.Environment)
	}
}

// DefaultInstance builds a per-process instance label
func DefaultInstance(environment string) string {
	if environment == "" {
		environment = "dev"
	}
	return fmt.Sprintf("holo-bot-%s-%s", environment, uuid.NewString()[:8])
}

func (c *RuntimeConfig) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string)

	port, err := strconv.Atoi(c.APIPort)
	if err != nil || port <= 0 || port > 65535 {
		problems["api_port"] = "api port must be a number between 1 and 65535"
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems["log_format"] = "log format must be text or json"
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems["log_level"] = "log level must be DEBUG, INFO, WARN or ERROR"
	}

	if c.HistoryRetention < 0 {
		problems["history_retention"] = "history retention cannot be negative"
	}

	for field, problem := range c.Prometheus.Valid(ctx) {
		problems["prometheus."+field] = problem
	}
	for field, problem := range c.Streaming.Valid(ctx) {
		problems["streaming."+field] = problem
	}

	return problems
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
