// Package service provides the core monitor service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/pixwatch/internal/adapters/probe"
	"github.com/okian/pixwatch/internal/adapters/repository"
	"github.com/okian/pixwatch/internal/adapters/scheduler"
	"github.com/okian/pixwatch/internal/domain/health"
	"github.com/okian/pixwatch/internal/domain/model"
	"github.com/okian/pixwatch/pkg/logger"
	"github.com/okian/pixwatch/pkg/metrics"
)

// Check cycle outcomes reported to metrics.
const (
	outcomeOK        = "ok"
	outcomeRecovered = "recovered"
)

// ErrNotStarted is returned by operations that need a started service.
var ErrNotStarted = errors.New("service not started")

// Service probes the configured targets and publishes the resulting status.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	prober    probe.Prober
	monitor   *health.Monitor
	scheduler *scheduler.Scheduler

	// Configuration
	targets       []model.Target
	checkInterval time.Duration
	initialDelay  time.Duration
	probeTimeout  time.Duration
	maxEntries    int
	healthOpts    []health.Option
	now           func() time.Time

	// State
	started bool
	cycles  int64

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		targets:       DefaultTargets(),
		checkInterval: 60 * time.Second,
		initialDelay:  2 * time.Second,
		probeTimeout:  3 * time.Second,
		maxEntries:    50,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultTargets are the hosts probed when none are configured. Only the
// central bank endpoint decides the status.
func DefaultTargets() []model.Target {
	return []model.Target{
		{Name: "Banco Central", Host: "www.bcb.gov.br", Port: 443, Primary: true},
		{Name: "Mercado Pago", Host: "api.mercadopago.com", Port: 443},
	}
}

// Init builds the components without starting the scheduler. Start calls it.
func (s *Service) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initLocked(ctx)
}

func (s *Service) initLocked(ctx context.Context) error {
	if s.monitor != nil {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	monitor, err := health.NewMonitor(s.targets, s.healthOpts...)
	if err != nil {
		return fmt.Errorf("build monitor: %w", err)
	}
	s.monitor = monitor

	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithMaxEntries(s.maxEntries))
	}
	if s.prober == nil {
		s.prober = probe.New(probe.WithTimeout(s.probeTimeout))
	}
	s.logger.Info(ctx, "monitor initialized",
		logger.Int("targets", len(s.targets)),
		logger.String("primary", monitor.Primary()),
	)
	return nil
}

// Start initializes the components and schedules the check loop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := s.initLocked(ctx); err != nil {
		return err
	}

	s.scheduler = scheduler.New(
		func(ctx context.Context) { s.Check(ctx) },
		scheduler.WithName("checker"),
		scheduler.WithInitialDelay(s.initialDelay),
		scheduler.WithInterval(s.checkInterval),
		scheduler.WithLogger(s.logger.Named("checker")),
	)
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "monitor service started",
		logger.Duration("interval", s.checkInterval),
		logger.Duration("initialDelay", s.initialDelay),
	)
	return nil
}

// Stop halts the check loop and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	sched, store := s.scheduler, s.store
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping monitor service...")

	// A running cycle needs s.mu, so wait for it outside the lock.
	if sched != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, s.probeTimeout+time.Second)
		if err := sched.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(ctx, "checker shutdown", logger.Error(err))
		}
		cancel()
	}
	if closer, ok := store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.logger.Info(ctx, "monitor service stopped")
}

// Check runs one cycle: probe every target concurrently, fold the results
// into the monitor and publish the verdict. Unexpected failures publish the
// unknown level instead of propagating.
func (s *Service) Check(ctx context.Context) {
	start := s.now()
	outcome := outcomeOK
	defer func() {
		if r := recover(); r != nil {
			outcome = outcomeRecovered
			s.logger.Error(ctx, "check cycle panicked", logger.Any("panic", r))
			s.markUnknown(ctx)
		}
		metrics.RecordCheckCycle(outcome, s.now().Sub(start).Seconds())
	}()

	if err := s.check(ctx); err != nil {
		outcome = outcomeRecovered
		s.logger.Error(ctx, "check cycle failed", logger.Error(err))
		s.markUnknown(ctx)
	}
}

func (s *Service) check(ctx context.Context) error {
	s.mu.RLock()
	monitor, prober, store, targets := s.monitor, s.prober, s.store, s.targets
	s.mu.RUnlock()
	if monitor == nil {
		return ErrNotStarted
	}

	results := make([]model.ProbeResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("probe %s panicked: %v", t.Name, r)
				}
			}()
			results[i] = prober.Probe(gctx, t)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// The monitor is only touched here and check runs one at a time from
	// the scheduler; the lock covers direct Check calls racing it.
	s.mu.Lock()
	for _, r := range results {
		if err := monitor.Observe(r); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("observe %s: %w", r.Target, err)
		}
	}
	verdict := monitor.Verdict()
	s.cycles++
	s.mu.Unlock()

	recorded, err := store.Apply(ctx, verdict.Level, verdict.Cause, s.now().UTC())
	if err != nil {
		return fmt.Errorf("publish status: %w", err)
	}
	metrics.SetStatus(string(verdict.Level), levelNames())

	if recorded {
		s.logger.Warn(ctx, "status degraded",
			logger.String("level", string(verdict.Level)),
			logger.String("cause", verdict.Cause),
		)
	}
	s.logger.Debug(ctx, "check cycle finished", logger.String("level", string(verdict.Level)))
	return nil
}

func (s *Service) markUnknown(ctx context.Context) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return
	}
	if err := store.MarkUnknown(ctx, s.now().UTC()); err != nil {
		s.logger.Error(ctx, "mark unknown failed", logger.Error(err))
		return
	}
	metrics.SetStatus(string(model.LevelUnknown), levelNames())
}

// Status returns the published status.
func (s *Service) Status(ctx context.Context) (model.Status, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return model.Status{}, ErrNotStarted
	}
	return store.Snapshot(ctx), nil
}

// History returns the failure log, oldest first.
func (s *Service) History(ctx context.Context) ([]model.FailureEvent, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return nil, ErrNotStarted
	}
	return store.History(ctx), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":         s.started,
		"targets":         len(s.targets),
		"checkIntervalMs": s.checkInterval.Milliseconds(),
		"cycles":          s.cycles,
	}
	if s.store != nil {
		snap := s.store.Snapshot(ctx)
		stats["level"] = string(snap.Level)
		stats["failureLogLength"] = s.store.Count(ctx)
	}
	if s.monitor != nil {
		estimates := make(map[string]string)
		for name, level := range s.monitor.Estimates() {
			estimates[name] = string(level)
		}
		stats["estimates"] = estimates
	}
	return stats
}

func levelNames() []string {
	levels := model.Levels()
	out := make([]string, len(levels))
	for i, l := range levels {
		out[i] = string(l)
	}
	return out
}
