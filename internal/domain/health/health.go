// Package health turns raw probe results into a published availability level.
package health

import (
	"fmt"
	"time"

	"github.com/okian/pixwatch/internal/domain/model"
)

// Default evaluation parameters.
const (
	defaultWindowSize    = 10
	defaultFailTolerance = 3
	defaultOKThreshold   = 2500 * time.Millisecond
	defaultSlowThreshold = 5 * time.Second
)

// Thresholds bound the average connect latency of each level.
type Thresholds struct {
	OK   time.Duration
	Slow time.Duration
}

// Classify maps the mean of w to a level. An empty window is unknown.
func Classify(w *Window, t Thresholds) model.Level {
	if w.Len() == 0 {
		return model.LevelUnknown
	}
	mean := w.Mean()
	switch {
	case mean < t.OK:
		return model.LevelOK
	case mean <= t.Slow:
		return model.LevelSlow
	default:
		return model.LevelFlaky
	}
}

// Tracker keeps the latency window and consecutive failure count of one target.
type Tracker struct {
	window     *Window
	fails      int
	thresholds Thresholds
	tolerance  int
}

// Observe folds a probe result into the tracker.
func (t *Tracker) Observe(r model.ProbeResult) {
	if r.OK {
		t.window.Add(r.Latency)
		t.fails = 0
		return
	}
	t.fails++
}

// Fails returns the number of consecutive failed probes.
func (t *Tracker) Fails() int { return t.fails }

// Estimate returns the current level of the target. Fewer consecutive
// failures than the tolerance still read as OK.
func (t *Tracker) Estimate() model.Level {
	if t.window.Len() > 0 && t.fails == 0 {
		return Classify(t.window, t.thresholds)
	}
	if t.fails >= t.tolerance {
		return model.LevelFlaky
	}
	return model.LevelOK
}

// Verdict is the monitor's decision after a round of observations.
type Verdict struct {
	Level model.Level
	Cause string // primary target name when Level is not OK
}

// Monitor tracks every configured target. Only the primary target decides
// the verdict; the others are tracked for visibility.
// Monitor is not safe for concurrent use.
type Monitor struct {
	trackers      map[string]*Tracker
	order         []string
	primary       string
	windowSize    int
	failTolerance int
	thresholds    Thresholds
}

// NewMonitor builds a monitor for targets. Exactly one target must be primary.
func NewMonitor(targets []model.Target, opts ...Option) (*Monitor, error) {
	m := &Monitor{
		trackers:      make(map[string]*Tracker, len(targets)),
		windowSize:    defaultWindowSize,
		failTolerance: defaultFailTolerance,
		thresholds:    Thresholds{OK: defaultOKThreshold, Slow: defaultSlowThreshold},
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, t := range targets {
		if t.Primary {
			if m.primary != "" {
				return nil, fmt.Errorf("%w: %q and %q", ErrManyPrimaries, m.primary, t.Name)
			}
			m.primary = t.Name
		}
		m.order = append(m.order, t.Name)
		m.trackers[t.Name] = &Tracker{
			window:     NewWindow(m.windowSize),
			thresholds: m.thresholds,
			tolerance:  m.failTolerance,
		}
	}
	if m.primary == "" {
		return nil, ErrNoPrimary
	}
	return m, nil
}

// Observe routes a probe result to its target tracker.
func (m *Monitor) Observe(r model.ProbeResult) error {
	t, ok := m.trackers[r.Target]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, r.Target)
	}
	t.Observe(r)
	return nil
}

// Verdict returns the level decided by the primary target.
func (m *Monitor) Verdict() Verdict {
	level := m.trackers[m.primary].Estimate()
	v := Verdict{Level: level}
	if level != model.LevelOK {
		v.Cause = m.primary
	}
	return v
}

// Estimates returns the current level of every target in configuration order.
func (m *Monitor) Estimates() map[string]model.Level {
	out := make(map[string]model.Level, len(m.order))
	for _, name := range m.order {
		out[name] = m.trackers[name].Estimate()
	}
	return out
}

// Primary returns the name of the deciding target.
func (m *Monitor) Primary() string { return m.primary }
