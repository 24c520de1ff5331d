// Package probe checks that a host resolves and accepts TCP connections.
package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/okian/pixwatch/internal/domain/model"
	"github.com/okian/pixwatch/pkg/logger"
	"github.com/okian/pixwatch/pkg/metrics"
)

// Default probe configuration constants.
const (
	defaultTimeout = 3 * time.Second
	defaultPort    = 443
)

// Failure stages reported in model.ProbeResult.Stage.
const (
	StageDNS = "dns"
	StageTCP = "tcp"
)

// Resolver looks up host addresses. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// Dialer opens connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Prober runs one probe against a target.
type Prober interface {
	Probe(ctx context.Context, t model.Target) model.ProbeResult
}

// NetProber probes with a DNS lookup followed by a TCP connect.
type NetProber struct {
	resolver    Resolver
	dialer      Dialer
	timeout     time.Duration
	defaultPort int
	now         func() time.Time
	logger      logger.Logger
}

var _ Prober = (*NetProber)(nil)

// New creates a NetProber using the system resolver.
func New(opts ...Option) *NetProber {
	p := &NetProber{
		resolver:    net.DefaultResolver,
		dialer:      &net.Dialer{},
		timeout:     defaultTimeout,
		defaultPort: defaultPort,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("probe")
	}
	return p
}

// Probe resolves the target and measures the time to open a TCP connection.
// The connection is closed right away. The latency excludes DNS time.
func (p *NetProber) Probe(ctx context.Context, t model.Target) model.ProbeResult {
	res := p.probe(ctx, t)
	metrics.RecordProbe(t.Name, res.OK, res.Stage, res.Latency.Seconds())
	if !res.OK {
		p.logger.Debug(ctx, "probe failed",
			logger.String("target", t.Name),
			logger.String("stage", res.Stage),
			logger.Error(res.Err),
		)
	}
	return res
}

func (p *NetProber) probe(ctx context.Context, t model.Target) model.ProbeResult {
	res := model.ProbeResult{Target: t.Name, At: p.now()}
	if t.Host == "" {
		res.Stage = StageDNS
		res.Err = ErrNoTarget
		return res
	}

	addrs, err := p.resolver.LookupHost(ctx, t.Host)
	if err != nil {
		res.Stage = StageDNS
		res.Err = fmt.Errorf("%w: %s: %w", ErrResolve, t.Host, err)
		return res
	}
	if len(addrs) == 0 {
		res.Stage = StageDNS
		res.Err = fmt.Errorf("%w: %s", ErrNoAddrs, t.Host)
		return res
	}

	port := t.Port
	if port <= 0 {
		port = p.defaultPort
	}
	addr := net.JoinHostPort(t.Host, strconv.Itoa(port))

	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := p.now()
	conn, err := p.dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		res.Stage = StageTCP
		res.Err = fmt.Errorf("%w: %s: %w", ErrConnect, addr, err)
		return res
	}
	res.Latency = p.now().Sub(start)
	_ = conn.Close()

	res.OK = true
	return res
}
