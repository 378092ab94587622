// Package config loads persistent cwgrep defaults from YAML files and
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds persistent defaults loaded from config files.
type Config struct {
	AWS      AWSConfig      `yaml:"aws"`
	Trace    TraceConfig    `yaml:"trace"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// AWSConfig holds AWS client defaults.
type AWSConfig struct {
	Region  string `yaml:"region"`
	Profile string `yaml:"profile"`
}

// TraceConfig holds trace defaults.
type TraceConfig struct {
	Group  string `yaml:"group"`
	Prefix string `yaml:"prefix"` // "", "ts", or "iso"
	Color  bool   `yaml:"color"`
}

// DefaultsConfig holds global defaults.
type DefaultsConfig struct {
	Limit int64 `yaml:"limit"`
	Debug bool  `yaml:"debug"`
}

// Load reads config from ~/.cwgrep/config.yaml then CWD .cwgrep.yaml.
// CWD config values override home config. Missing files are not errors.
// Environment variables (CWGREP_*) override config file values.
func Load() *Config {
	cfg := &Config{}

	// home config
	if home, err := os.UserHomeDir(); err == nil {
		_ = loadFile(filepath.Join(home, ".cwgrep", "config.yaml"), cfg)
	}

	// CWD config overrides
	_ = loadFile(".cwgrep.yaml", cfg)

	// env overrides
	applyEnv(cfg)

	return cfg
}

// LoadFrom reads config from a specific path. Used for testing.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CWGREP_REGION"); v != "" {
		cfg.AWS.Region = v
	}
	if v := os.Getenv("CWGREP_PROFILE"); v != "" {
		cfg.AWS.Profile = v
	}
	if v := os.Getenv("CWGREP_GROUP"); v != "" {
		cfg.Trace.Group = v
	}
	if v := os.Getenv("CWGREP_PREFIX"); v != "" {
		cfg.Trace.Prefix = v
	}
	if v := os.Getenv("CWGREP_COLOR"); v != "" {
		cfg.Trace.Color = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("CWGREP_DEBUG"); v != "" {
		cfg.Defaults.Debug = strings.EqualFold(v, "true") || v == "1"
	}
}
