// Package config loads questcheck settings from an optional YAML file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/nathoo/questcheck/engine/sanity"
)

// FileName is the config file looked up in the working directory.
const FileName = "questcheck.yaml"

// Config holds the settings shared by every command.
type Config struct {
	World    string   `yaml:"world"     env:"QUESTCHECK_WORLD"`
	Format   string   `yaml:"format"    env:"QUESTCHECK_FORMAT"`
	LogLevel string   `yaml:"log_level" env:"QUESTCHECK_LOG_LEVEL"`
	Suggest  bool     `yaml:"suggest"   env:"QUESTCHECK_SUGGEST"`
	Ignore   []string `yaml:"ignore"    env:"QUESTCHECK_IGNORE" envSeparator:","`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Format:   "text",
		LogLevel: "warn",
	}
}

// Load reads path (a missing file is not an error), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("loading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported format: %q", c.Format)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for i, s := range c.Ignore {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("ignore pattern %d is empty", i)
		}
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unsupported log level: %q", c.LogLevel)
	}
	return lvl, nil
}

// Filter drops results whose message contains any Ignore pattern.
func (c *Config) Filter(results []sanity.Result) []sanity.Result {
	if len(c.Ignore) == 0 {
		return results
	}
	out := make([]sanity.Result, 0, len(results))
	for _, r := range results {
		if !c.ignored(r.Message) {
			out = append(out, r)
		}
	}
	return out
}

func (c *Config) ignored(msg string) bool {
	for _, pat := range c.Ignore {
		if strings.Contains(msg, pat) {
			return true
		}
	}
	return false
}
