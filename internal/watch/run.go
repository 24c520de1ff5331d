package watch

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okian/pixwatch/pkg/logger"
)

// Options configures a poller run.
type Options struct {
	BaseURL    string
	Interval   time.Duration
	Timeout    time.Duration
	TimeLayout string
	Location   *time.Location
}

func (o Options) formatter() TimeFormatter {
	return TimeFormatter{Location: o.Location, Layout: o.TimeLayout}
}

// RunTUI polls until the user quits or ctx is cancelled.
func RunTUI(ctx context.Context, opts Options) error {
	client, err := NewClient(opts.BaseURL, opts.Timeout)
	if err != nil {
		return err
	}
	m := NewModel(ctx, client, NewBoard(opts.formatter()), opts.Interval)
	if _, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("watch: run: %w", err)
	}
	return nil
}

// RunOnce fetches the status and the history once and writes the board to w.
// The board is written even when the status fetch fails; the error is
// returned afterwards.
func RunOnce(ctx context.Context, f Fetcher, opts Options, w io.Writer) error {
	log := logger.Get().Named("watch")
	board := NewBoard(opts.formatter())

	rec, statusErr := f.FetchStatus(ctx)
	if statusErr != nil {
		log.Error(ctx, "status poll failed", logger.Error(statusErr))
	}
	board.ApplyStatus(rec, statusErr)

	board.ToggleHistory()
	entries, err := f.FetchHistory(ctx)
	if err != nil {
		log.Error(ctx, "history load failed", logger.Error(err))
	}
	board.ApplyHistory(entries, err)

	if _, err := io.WriteString(w, board.Plain()); err != nil {
		return fmt.Errorf("watch: write: %w", err)
	}
	return statusErr
}
