package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/pixwatch/internal/watch"
	"github.com/okian/pixwatch/pkg/logger"
)

const logFilePermission = 0o600

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "watch",
		Short:        "Poll a pixwatch monitor and show its PIX status",
		SilenceUsage: true,
		RunE:         runWatch,
	}
	cmd.Flags().SortFlags = false
	cmd.Flags().StringP("url", "u", "http://localhost:5001", "base URL of the monitor")
	cmd.Flags().DurationP("interval", "i", watch.DefaultInterval, "status poll interval")
	cmd.Flags().Duration("timeout", 5*time.Second, "per-request timeout")
	cmd.Flags().Bool("once", false, "fetch status and history once, print them and exit")
	cmd.Flags().String("log-file", "", "write logs to this file (default: discarded in TUI mode, stderr with --once)")
	cmd.Flags().String("log-level", "info", "log level: debug, info, warn, error")
	cmd.Flags().String("time-layout", watch.DefaultTimeLayout, "Go time layout for timestamps")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	baseURL, _ := cmd.Flags().GetString("url")
	interval, _ := cmd.Flags().GetDuration("interval")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	once, _ := cmd.Flags().GetBool("once")
	logFile, _ := cmd.Flags().GetString("log-file")
	logLevel, _ := cmd.Flags().GetString("log-level")
	layout, _ := cmd.Flags().GetString("time-layout")

	closeLog, err := setupLogging(logFile, logLevel, once)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := watch.Options{
		BaseURL:    baseURL,
		Interval:   interval,
		Timeout:    timeout,
		TimeLayout: layout,
		Location:   time.Local,
	}

	if once {
		client, err := watch.NewClient(baseURL, timeout)
		if err != nil {
			return err
		}
		return watch.RunOnce(cmd.Context(), client, opts, cmd.OutOrStdout())
	}
	return watch.RunTUI(cmd.Context(), opts)
}

// setupLogging points the global logger at a file, stderr or nowhere. The
// TUI owns the terminal, so it never logs to stdout or stderr.
func setupLogging(path, level string, once bool) (func(), error) {
	var (
		w       io.Writer = io.Discard
		closeFn           = func() {}
	)
	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	case once:
		w = os.Stderr
	}

	if err := logger.InitWithWriter(w); err != nil {
		closeFn()
		return nil, err
	}
	if err := logger.SetLevelString(level); err != nil {
		closeFn()
		return nil, err
	}
	return closeFn, nil
}
