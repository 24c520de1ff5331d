package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/okian/pixwatch/internal/adapters/http/api"
	"github.com/okian/pixwatch/internal/adapters/http/site"
	"github.com/okian/pixwatch/internal/adapters/http/swagger"
	"github.com/okian/pixwatch/internal/adapters/probe"
	app "github.com/okian/pixwatch/internal/app"
	"github.com/okian/pixwatch/internal/config"
	"github.com/okian/pixwatch/internal/domain/health"
	"github.com/okian/pixwatch/pkg/logger"
	"github.com/okian/pixwatch/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		loggerInstance.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(serviceOptions(cfg, loggerInstance)...)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("url", "http://"+lanIP(ctx)+":"+port(cfg.Addr)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// serviceOptions maps the loaded configuration onto service options.
func serviceOptions(cfg *config.Config, l logger.Logger) []app.Option {
	return []app.Option{
		app.WithLogger(l),
		app.WithTargets(cfg.Targets),
		app.WithCheckInterval(cfg.CheckInterval()),
		app.WithInitialDelay(cfg.InitialDelay()),
		app.WithProbeTimeout(cfg.ProbeTimeout()),
		app.WithMaxLogEntries(cfg.MaxLogEntries),
		app.WithProber(probe.New(
			probe.WithTimeout(cfg.ProbeTimeout()),
			probe.WithDefaultPort(cfg.ProbePort),
			probe.WithLogger(l.Named("probe")),
		)),
		app.WithHealthOptions(
			health.WithWindowSize(cfg.WindowSize),
			health.WithFailTolerance(cfg.FailTolerance),
			health.WithThresholds(cfg.OKThreshold(), cfg.SlowThreshold()),
		),
	}
}

// newMux registers every route. The dashboard owns / and the more specific
// API and docs paths take precedence over it.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

// lanIP returns the address other machines on the network can reach us at.
// Dialing UDP sends no packet; it only selects the outbound interface.
func lanIP(ctx context.Context) string {
	var d net.Dialer
	if conn, err := d.DialContext(ctx, "udp", "8.8.8.8:80"); err == nil {
		defer func() { _ = conn.Close() }()
		if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
			return addr.IP.String()
		}
	}
	if host, err := os.Hostname(); err == nil {
		if addrs, err := net.DefaultResolver.LookupHost(ctx, host); err == nil && len(addrs) > 0 {
			return addrs[0]
		}
	}
	return "127.0.0.1"
}

// port extracts the port of a listen address, defaulting to 80.
func port(addr string) string {
	_, p, err := net.SplitHostPort(addr)
	if err != nil || p == "" {
		return "80"
	}
	if _, err := strconv.Atoi(p); err != nil {
		return "80"
	}
	return p
}

// startSystemMetricsUpdater periodically publishes runtime gauges.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine())
}
