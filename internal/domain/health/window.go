package health

import "time"

// Window is a fixed-size moving window of latency samples.
// The oldest sample is evicted when the window is full.
type Window struct {
	samples []time.Duration
	next    int
	full    bool
}

// NewWindow creates a window holding up to size samples (minimum 1).
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{samples: make([]time.Duration, size)}
}

// Add appends a sample, evicting the oldest one when full.
func (w *Window) Add(d time.Duration) {
	w.samples[w.next] = d
	w.next++
	if w.next == len(w.samples) {
		w.next = 0
		w.full = true
	}
}

// Len returns the number of samples held.
func (w *Window) Len() int {
	if w.full {
		return len(w.samples)
	}
	return w.next
}

// Mean returns the average of the held samples, or zero when empty.
func (w *Window) Mean() time.Duration {
	n := w.Len()
	if n == 0 {
		return 0
	}
	var sum time.Duration
	for i := 0; i < n; i++ {
		sum += w.samples[i]
	}
	return sum / time.Duration(n)
}
