package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read by Load.
const (
	EnvPrefix = "PIXWATCH_"
	EnvFile   = "PIXWATCH_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if PIXWATCH_CONFIG is set
//  3. env (prefix PIXWATCH_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PIXWATCH_CHECK_INTERVAL_MS -> check_interval_ms. Keys stay flat so the
	// underscores match the koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	// A configured target list replaces the defaults instead of merging into them.
	if k.Exists("targets") {
		cfg.Targets = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the monitor relies on.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.CheckIntervalMS <= 0 || c.ProbeTimeoutMS <= 0 {
		return fmt.Errorf("%w: check interval and probe timeout must be positive", ErrInvalidConfig)
	}
	if c.OKThresholdMS <= 0 || c.SlowThresholdMS < c.OKThresholdMS {
		return fmt.Errorf("%w: thresholds must satisfy 0 < ok <= slow", ErrInvalidConfig)
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("%w: at least one target is required", ErrInvalidConfig)
	}

	primaries := 0
	seen := make(map[string]struct{}, len(c.Targets))
	for _, t := range c.Targets {
		if t.Name == "" || t.Host == "" {
			return fmt.Errorf("%w: targets need a name and a host", ErrInvalidConfig)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: duplicate target %q", ErrInvalidConfig, t.Name)
		}
		seen[t.Name] = struct{}{}
		if t.Primary {
			primaries++
		}
	}
	if primaries != 1 {
		return fmt.Errorf("%w: exactly one primary target is required, got %d", ErrInvalidConfig, primaries)
	}
	return nil
}
