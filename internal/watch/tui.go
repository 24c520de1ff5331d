package watch

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/okian/pixwatch/internal/domain/types"
	"github.com/okian/pixwatch/pkg/logger"
)

// DefaultInterval matches the dashboard's refresh period.
const DefaultInterval = 5 * time.Second

// Fetcher is the part of Client the terminal model needs.
type Fetcher interface {
	FetchStatus(ctx context.Context) (types.StatusRecord, error)
	FetchHistory(ctx context.Context) ([]types.HistoryEntry, error)
}

type tickMsg time.Time

type statusMsg struct {
	rec types.StatusRecord
	err error
}

type historyMsg struct {
	entries []types.HistoryEntry
	err     error
}

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#54baff"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	historyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#334155")).
			Padding(0, 1)

	statusColors = map[string]lipgloss.Color{
		"ok":               lipgloss.Color("#22c55e"),
		"lento":            lipgloss.Color("#eab308"),
		"oscilando":        lipgloss.Color("#f97316"),
		"desconhecido":     lipgloss.Color("#94a3b8"),
		"servidor offline": lipgloss.Color("#ef4444"),
	}
)

// Model is the bubbletea model of the terminal poller. Every board mutation
// happens in Update; fetches run as commands.
type Model struct {
	ctx      context.Context
	fetcher  Fetcher
	board    *Board
	interval time.Duration
	spinner  spinner.Model
	polling  bool
	now      func() time.Time
	log      logger.Logger
}

// NewModel creates a model polling f every interval.
func NewModel(ctx context.Context, f Fetcher, board *Board, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#54baff"))
	return Model{
		ctx:      ctx,
		fetcher:  f,
		board:    board,
		interval: interval,
		spinner:  s,
		now:      time.Now,
		log:      logger.Get().Named("watch"),
	}
}

// Board exposes the view state, mainly for tests.
func (m Model) Board() *Board { return m.board }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchStatus(), m.tick())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "h", " ", "enter":
			if m.board.ToggleHistory() {
				return m, m.fetchHistory()
			}
			return m, nil
		case "r":
			m.polling = true
			return m, m.fetchStatus()
		}
		return m, nil

	case tickMsg:
		m.polling = true
		return m, tea.Batch(m.fetchStatus(), m.tick())

	case statusMsg:
		m.polling = false
		if msg.err != nil {
			m.log.Error(m.ctx, "status poll failed", logger.Error(msg.err))
		}
		m.board.ApplyStatus(msg.rec, msg.err)
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.log.Error(m.ctx, "history load failed", logger.Error(msg.err))
		}
		m.board.ApplyHistory(msg.entries, msg.err)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Status do PIX"))
	if m.polling {
		sb.WriteString(" " + m.spinner.View())
	}
	sb.WriteString("\n\n")

	style := labelStyle
	if c, ok := statusColors[m.board.StatusKey]; ok {
		style = style.Foreground(c)
	}
	sb.WriteString(style.Render(m.board.Label))
	sb.WriteString("\n")

	updated := "Atualizado em: " + m.board.Updated
	if !m.board.UpdatedAt.IsZero() {
		updated += " (" + humanize.RelTime(m.board.UpdatedAt, m.now(), "ago", "from now") + ")"
	}
	sb.WriteString(dimStyle.Render(updated))
	sb.WriteString("\n\n")

	sb.WriteString("[" + m.board.ButtonText() + "]\n")
	if m.board.HistoryVisible {
		sb.WriteString(historyStyle.Render(strings.Join(m.board.HistoryLines, "\n")))
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + dimStyle.Render("h: histórico • r: atualizar • q: sair") + "\n")
	return sb.String()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) fetchStatus() tea.Cmd {
	return func() tea.Msg {
		rec, err := m.fetcher.FetchStatus(m.ctx)
		return statusMsg{rec: rec, err: err}
	}
}

func (m Model) fetchHistory() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.fetcher.FetchHistory(m.ctx)
		return historyMsg{entries: entries, err: err}
	}
}
