// Package config defines the monitor configuration and how it is loaded.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Durations are configured in milliseconds and exposed as time.Duration helpers.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"time"

	"github.com/okian/pixwatch/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":5001".
	Addr string `koanf:"addr"`

	// CheckIntervalMS is the time between check cycles.
	CheckIntervalMS int `koanf:"check_interval_ms"`

	// InitialDelayMS delays the first check cycle after startup.
	InitialDelayMS int `koanf:"initial_delay_ms"`

	// ProbeTimeoutMS bounds every TCP connect.
	ProbeTimeoutMS int `koanf:"probe_timeout_ms"`

	// ProbePort is used for targets that do not set a port.
	ProbePort int `koanf:"probe_port"`

	// MaxLogEntries caps the failure log.
	MaxLogEntries int `koanf:"max_log_entries"`

	// FailTolerance is the number of consecutive failures before a target reads as flaky.
	FailTolerance int `koanf:"fail_tolerance"`

	// WindowSize is the number of latency samples averaged per target.
	WindowSize int `koanf:"window_size"`

	// OKThresholdMS and SlowThresholdMS bound the average latency of each level.
	OKThresholdMS   int `koanf:"ok_threshold_ms"`
	SlowThresholdMS int `koanf:"slow_threshold_ms"`

	// Targets are the probed hosts. Exactly one must be primary.
	Targets []model.Target `koanf:"targets"`
}

// New creates a Config with defaults. Context is accepted first to follow the
// project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":5001",
		CheckIntervalMS: 60_000,
		InitialDelayMS:  2_000,
		ProbeTimeoutMS:  3_000,
		ProbePort:       443,
		MaxLogEntries:   50,
		FailTolerance:   3,
		WindowSize:      10,
		OKThresholdMS:   2_500,
		SlowThresholdMS: 5_000,
		Targets: []model.Target{
			{Name: "Banco Central", Host: "www.bcb.gov.br", Port: 443, Primary: true},
			{Name: "Mercado Pago", Host: "api.mercadopago.com", Port: 443},
		},
	}
}

// CheckInterval returns CheckIntervalMS as a duration.
func (c *Config) CheckInterval() time.Duration { return ms(c.CheckIntervalMS) }

// InitialDelay returns InitialDelayMS as a duration.
func (c *Config) InitialDelay() time.Duration { return ms(c.InitialDelayMS) }

// ProbeTimeout returns ProbeTimeoutMS as a duration.
func (c *Config) ProbeTimeout() time.Duration { return ms(c.ProbeTimeoutMS) }

// OKThreshold returns OKThresholdMS as a duration.
func (c *Config) OKThreshold() time.Duration { return ms(c.OKThresholdMS) }

// SlowThreshold returns SlowThresholdMS as a duration.
func (c *Config) SlowThreshold() time.Duration { return ms(c.SlowThresholdMS) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
