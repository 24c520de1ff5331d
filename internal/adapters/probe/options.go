package probe

import (
	"time"

	"github.com/okian/pixwatch/pkg/logger"
)

// Option applies a configuration option to the NetProber.
type Option func(*NetProber)

// WithTimeout bounds the TCP connect.
func WithTimeout(d time.Duration) Option {
	return func(p *NetProber) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithDefaultPort sets the port used when a target does not name one.
func WithDefaultPort(port int) Option {
	return func(p *NetProber) {
		if port > 0 {
			p.defaultPort = port
		}
	}
}

// WithResolver replaces the DNS resolver.
func WithResolver(r Resolver) Option {
	return func(p *NetProber) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithDialer replaces the TCP dialer.
func WithDialer(d Dialer) Option {
	return func(p *NetProber) {
		if d != nil {
			p.dialer = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *NetProber) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *NetProber) {
		if now != nil {
			p.now = now
		}
	}
}
