package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the daemon configuration.
type Config struct {
	// Display overrides the DISPLAY environment variable when set.
	Display string `yaml:"display"`

	// Xauthority overrides the XAUTHORITY environment variable when set.
	Xauthority string `yaml:"xauthority"`

	// SaveDelayMs is the quiet period after window movement before
	// placements are snapshotted.
	SaveDelayMs int `yaml:"save_delay_ms"`

	// RestoreDelayMs is the settle period after a display change before
	// placements are restored.
	RestoreDelayMs int `yaml:"restore_delay_ms"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SaveDelayMs:    200,
		RestoreDelayMs: 500,
		LogLevel:       "info",
	}
}

// SaveDelay returns the snapshot debounce as a duration.
func (c *Config) SaveDelay() time.Duration {
	return time.Duration(c.SaveDelayMs) * time.Millisecond
}

// RestoreDelay returns the display-change settle period as a duration.
func (c *Config) RestoreDelay() time.Duration {
	return time.Duration(c.RestoreDelayMs) * time.Millisecond
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.SaveDelayMs <= 0 {
		return fmt.Errorf("save_delay_ms must be positive, got %d", c.SaveDelayMs)
	}
	if c.RestoreDelayMs <= 0 {
		return fmt.Errorf("restore_delay_ms must be positive, got %d", c.RestoreDelayMs)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	return nil
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "monitorkeeper", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file is
// not an error; defaults apply.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the configuration from path, applying defaults for any
// field the file omits. Unknown keys are rejected.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
