// Package config loads warrior's YAML config file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Audio    AudioConfig    `yaml:"audio"`
	Log      LogConfig      `yaml:"log"`
	Timer    TimerConfig    `yaml:"timer"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"`
	// Bell rings the terminal bell for cues.
	Bell bool `yaml:"bell"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type TimerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	dir := Dir()
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(dir, "warrior.db")},
		Audio:    AudioConfig{Enabled: true, Volume: 0.7, Bell: true},
		Log:      LogConfig{Level: "info", File: filepath.Join(dir, "warrior.log")},
		Timer:    TimerConfig{TickInterval: time.Second},
	}
}

// Dir is the directory holding warrior's config, database and log.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "warrior")
}

// DefaultPath returns <UserConfigDir>/warrior/config.yaml.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error.
//
//	WARRIOR_DB_PATH, WARRIOR_LOG_LEVEL, WARRIOR_LOG_FILE,
//	WARRIOR_AUDIO_ENABLED, WARRIOR_AUDIO_VOLUME, WARRIOR_TICK_INTERVAL
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("WARRIOR_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("WARRIOR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv("WARRIOR_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v := os.Getenv("WARRIOR_AUDIO_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("WARRIOR_AUDIO_ENABLED: %w", err)
		}
		cfg.Audio.Enabled = b
	}
	if v := os.Getenv("WARRIOR_AUDIO_VOLUME"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("WARRIOR_AUDIO_VOLUME: %w", err)
		}
		cfg.Audio.Volume = f
	}
	if v := os.Getenv("WARRIOR_TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WARRIOR_TICK_INTERVAL: %w", err)
		}
		cfg.Timer.TickInterval = d
	}
	return nil
}

func (c *Config) validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("audio.volume must be within [0,1], got %v", c.Audio.Volume)
	}
	if c.Timer.TickInterval <= 0 {
		return fmt.Errorf("timer.tick_interval must be positive, got %v", c.Timer.TickInterval)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// LogLevel is the parsed log.level.
func (c *Config) LogLevel() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Save writes the config as YAML, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
