package repository

// Default store configuration constants.
const (
	defaultMaxEntries = 50
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxEntries bounds the failure log. The oldest entries are dropped first.
func WithMaxEntries(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}
