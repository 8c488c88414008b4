package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Store StoreConfig `yaml:"store" toml:"store"`
	Log   LogConfig   `yaml:"log" toml:"log"`
	Units string      `yaml:"units" toml:"units"`
	FTO   FTOConfig   `yaml:"fto" toml:"fto"`
	SSP   SSPConfig   `yaml:"ssp" toml:"ssp"`
}

type StoreConfig struct {
	Path string `yaml:"path" toml:"path"`
}

type LogConfig struct {
	Level      string `yaml:"level" toml:"level"`
	Format     string `yaml:"format" toml:"format"`
	File       string `yaml:"file" toml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
}

type FTOConfig struct {
	Increment float64 `yaml:"increment" toml:"increment"`
	Smooth    bool    `yaml:"smooth" toml:"smooth"`
}

type SSPConfig struct {
	SetMax int `yaml:"set_max" toml:"set_max"`
	Apex   int `yaml:"apex" toml:"apex"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Path: "workouts.json"},
		Log:   LogConfig{Level: "info", Format: "text", MaxSizeMB: 10, MaxBackups: 3},
		Units: "lbs",
		FTO:   FTOConfig{Increment: 5},
		SSP:   SSPConfig{SetMax: 10, Apex: 100},
	}
}

// Load reads config from a YAML or TOML file, chosen by extension, on top of
// the defaults, then applies environment variable overrides.
// Env vars use the prefix CRANK_ and underscore-separated paths:
//
//	CRANK_STORE_PATH,
//	CRANK_LOG_LEVEL, CRANK_LOG_FORMAT, CRANK_LOG_FILE,
//	CRANK_UNITS, CRANK_FTO_INCREMENT,
//	CRANK_SSP_SET_MAX, CRANK_SSP_APEX
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return finish(cfg)
}

// FromEnv returns the defaults with environment overrides applied.
func FromEnv() (*Config, error) {
	return finish(Default())
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CRANK_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("CRANK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CRANK_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("CRANK_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("CRANK_UNITS"); v != "" {
		cfg.Units = v
	}
	if v := os.Getenv("CRANK_FTO_INCREMENT"); v != "" {
		if inc, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FTO.Increment = inc
		}
	}
	if v := os.Getenv("CRANK_SSP_SET_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SSP.SetMax = n
		}
	}
	if v := os.Getenv("CRANK_SSP_APEX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SSP.Apex = n
		}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}
	switch c.Units {
	case "lbs", "kgs":
	default:
		return fmt.Errorf("units %q must be lbs or kgs", c.Units)
	}
	if c.FTO.Increment < 0 {
		return fmt.Errorf("fto.increment must not be negative")
	}
	if c.SSP.SetMax <= 0 || c.SSP.Apex <= 0 {
		return fmt.Errorf("ssp.set_max and ssp.apex must be positive")
	}
	if c.SSP.Apex%c.SSP.SetMax != 0 {
		return fmt.Errorf("ssp.apex must be a multiple of ssp.set_max")
	}
	return nil
}
