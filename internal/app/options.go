package service

import (
	"time"

	"github.com/okian/pixwatch/internal/adapters/probe"
	"github.com/okian/pixwatch/internal/adapters/repository"
	"github.com/okian/pixwatch/internal/domain/health"
	"github.com/okian/pixwatch/internal/domain/model"
	"github.com/okian/pixwatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTargets replaces the probed targets.
func WithTargets(targets []model.Target) Option {
	return func(s *Service) {
		if len(targets) > 0 {
			s.targets = append([]model.Target(nil), targets...)
		}
	}
}

// WithCheckInterval sets the time between check cycles.
func WithCheckInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.checkInterval = d
		}
	}
}

// WithInitialDelay sets the wait before the first check cycle.
func WithInitialDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.initialDelay = d
		}
	}
}

// WithProbeTimeout bounds each TCP connect.
func WithProbeTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.probeTimeout = d
		}
	}
}

// WithMaxLogEntries bounds the failure log.
func WithMaxLogEntries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithHealthOptions forwards options to the health monitor.
func WithHealthOptions(opts ...health.Option) Option {
	return func(s *Service) {
		s.healthOpts = append(s.healthOpts, opts...)
	}
}

// WithProber replaces the network prober.
func WithProber(p probe.Prober) Option {
	return func(s *Service) {
		if p != nil {
			s.prober = p
		}
	}
}

// WithStore replaces the status store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
