package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/pixwatch/internal/domain/model"
	"github.com/okian/pixwatch/pkg/metrics"
)

// MemoryStore is an in-memory Store. The log is lost on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	status     model.Status
	log        []model.FailureEvent
	maxEntries int
	closed     bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store whose initial level is unknown.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		status:     model.Status{Level: model.LevelUnknown},
		maxEntries: defaultMaxEntries,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = make([]model.FailureEvent, 0, s.maxEntries)
	return s
}

// Apply implements Store.
func (s *MemoryStore) Apply(_ context.Context, level model.Level, cause string, at time.Time) (bool, error) {
	if !validLevel(level) {
		return false, fmt.Errorf("%w: %q", ErrInvalidLevel, level)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}

	recorded := false
	if s.status.Level == model.LevelOK && level != model.LevelOK {
		s.log = append(s.log, model.FailureEvent{At: at, Service: cause, Level: level})
		if len(s.log) > s.maxEntries {
			s.log = append(s.log[:0], s.log[len(s.log)-s.maxEntries:]...)
		}
		recorded = true
	}
	s.status = model.Status{Level: level, UpdatedAt: at}

	metrics.UpdateFailureLogLength(len(s.log))
	return recorded, nil
}

// MarkUnknown implements Store.
func (s *MemoryStore) MarkUnknown(_ context.Context, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.status = model.Status{Level: model.LevelUnknown, UpdatedAt: at}
	return nil
}

// Snapshot implements Store.
func (s *MemoryStore) Snapshot(_ context.Context) model.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// History implements Store.
func (s *MemoryStore) History(_ context.Context) []model.FailureEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.FailureEvent, len(s.log))
	copy(out, s.log)
	return out
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.log)
}

// Close rejects further writes. Reads keep serving the last state.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func validLevel(l model.Level) bool {
	for _, known := range model.Levels() {
		if l == known {
			return true
		}
	}
	return false
}
