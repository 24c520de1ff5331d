// Package scheduler runs a job after an initial delay and then periodically.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/pixwatch/pkg/logger"
)

// Default scheduler configuration constants.
const (
	defaultInitialDelay = 2 * time.Second
	defaultInterval     = 60 * time.Second
)

// ErrAlreadyStarted is returned by Start on a running scheduler.
var ErrAlreadyStarted = errors.New("scheduler already started")

// Job is the unit of work run on every tick.
type Job func(ctx context.Context)

// Scheduler re-arms its timer after every run, so runs never overlap and a
// slow run pushes the next one back instead of queueing ticks.
type Scheduler struct {
	job          Job
	name         string
	initialDelay time.Duration
	interval     time.Duration
	onPanic      func(any)

	mu       sync.Mutex
	started  bool
	shutdown chan struct{}
	done     chan struct{}
	runs     int64

	logger logger.Logger
}

// New creates a scheduler for job.
func New(job Job, opts ...Option) *Scheduler {
	s := &Scheduler{
		job:          job,
		name:         "scheduler",
		initialDelay: defaultInitialDelay,
		interval:     defaultInterval,
		shutdown:     make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named(s.name)
	}
	return s
}

// Start launches the loop in a goroutine. It stops when ctx is cancelled or
// Shutdown is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	go s.run(ctx)
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	timer := time.NewTimer(s.initialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdown:
			return
		case <-timer.C:
			s.runOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "job panicked", logger.Any("panic", r))
			if s.onPanic != nil {
				s.onPanic(r)
			}
		}
	}()
	s.mu.Lock()
	s.runs++
	s.mu.Unlock()
	s.job(ctx)
}

// Runs returns how many times the job has been started.
func (s *Scheduler) Runs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Shutdown stops the loop and waits for a running job to return.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	select {
	case <-s.shutdown:
	default:
		close(s.shutdown)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		s.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
