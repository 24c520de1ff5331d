package health

import "time"

// Option applies a configuration option to the Monitor.
type Option func(*Monitor)

// WithWindowSize sets how many latency samples feed the moving average.
func WithWindowSize(size int) Option {
	return func(m *Monitor) {
		if size > 0 {
			m.windowSize = size
		}
	}
}

// WithFailTolerance sets how many consecutive failures are tolerated before
// a target is reported as flaky.
func WithFailTolerance(n int) Option {
	return func(m *Monitor) {
		if n > 0 {
			m.failTolerance = n
		}
	}
}

// WithThresholds sets the average latency limits: below ok is OK, up to slow
// (inclusive) is slow, anything above is flaky.
func WithThresholds(ok, slow time.Duration) Option {
	return func(m *Monitor) {
		if ok > 0 && slow >= ok {
			m.thresholds = Thresholds{OK: ok, Slow: slow}
		}
	}
}
