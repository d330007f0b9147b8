package core

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read from the working directory when -config is not given.
const DefaultConfigFile = "pdf_summarizer.yaml"

// LoadConfigFile reads path on top of the defaults. Fields missing from the
// file keep their default values.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrInvalidConfigFile(path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, ErrInvalidConfigFile(path, err)
	}
	return cfg, nil
}

// LoadConfigFileOrDefault is LoadConfigFile, returning the defaults when
// path is empty or does not exist.
func LoadConfigFileOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadConfigFile(path)
}

// Save writes the configuration as YAML, creating parent directories. The
// API key is never written.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// InitConfigFile writes the defaults to path unless a file is already
// there. It reports whether a file was created.
func InitConfigFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := DefaultConfig().Save(path); err != nil {
		return false, err
	}
	return true, nil
}
