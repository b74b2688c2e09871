package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the configuration from a YAML file, then fills
// secrets from the environment and applies defaults.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyEnv()
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Default loads the configuration without a file: environment secrets plus
// defaults. Used when --config is not given.
func Default() (*Config, error) {
	var cfg Config
	cfg.applyEnv()
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Location == "" {
		cfg.Location = "nbg1"
	}
	if cfg.NetworkZone == "" {
		cfg.NetworkZone = "eu-central"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "fsn1"
	}
	if cfg.SSH.User == "" {
		cfg.SSH.User = "root"
	}
}
