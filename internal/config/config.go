package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.swipe/config.toml.
type Config struct {
	DefaultSession    string `toml:"default_session"`
	APIBaseURL        string `toml:"api_base_url"`
	SweepIntervalSecs int    `toml:"sweep_interval_secs"`
	ProbeIntervalSecs int    `toml:"probe_interval_secs"`
}

// Defaults fills unset fields in place.
func (c *Config) Defaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = "https://api.swipe.app"
	}
	if c.SweepIntervalSecs <= 0 {
		c.SweepIntervalSecs = 60
	}
	if c.ProbeIntervalSecs <= 0 {
		c.ProbeIntervalSecs = 15
	}
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
