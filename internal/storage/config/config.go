package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFeedURL lists the daily builds published by the Blender Foundation.
const DefaultFeedURL = "https://builder.blender.org/download/daily/?format=json&v=2"

// FeedURLEnv overrides the feed URL from the environment.
const FeedURLEnv = "BLENDIO_FEED_URL"

// Config holds global application settings
type Config struct {
	FeedURL string `yaml:"feed_url"`
	// RecentFilesRoot replaces Blender's own configuration directory when
	// looking for recent-files manifests. Empty means the platform default.
	RecentFilesRoot string        `yaml:"recent_files_root,omitempty"`
	Keybindings     string        `yaml:"keybindings"`
	LogLevel        string        `yaml:"log_level"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		FeedURL:        DefaultFeedURL,
		Keybindings:    "vim",
		LogLevel:       "warn",
		ConnectTimeout: 5 * time.Second,
	}
}

// Load reads configuration from the given directory
func Load(configDir string) (*Config, error) {
	cfg := Default()

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if v := os.Getenv(FeedURLEnv); v != "" {
		cfg.FeedURL = v
	}
	if cfg.FeedURL == "" {
		cfg.FeedURL = DefaultFeedURL
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.RecentFilesRoot != "" {
		cfg.RecentFilesRoot = ExpandPath(cfg.RecentFilesRoot)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have a fixed set of choices.
func (c *Config) Validate() error {
	switch c.Keybindings {
	case "vim", "standard":
	default:
		return fmt.Errorf("invalid keybindings %q: want vim or standard", c.Keybindings)
	}
	return nil
}

// Save writes configuration to the given directory
func (c *Config) Save(configDir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Set assigns one setting by its yaml key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "feed_url":
		c.FeedURL = value
	case "recent_files_root":
		c.RecentFilesRoot = ExpandPath(value)
	case "keybindings":
		c.Keybindings = value
	case "log_level":
		c.LogLevel = value
	case "connect_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("parsing connect_timeout: %w", err)
		}
		c.ConnectTimeout = d
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return c.Validate()
}
