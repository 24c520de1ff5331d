package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/pixwatch/internal/domain/types"
)

// Display strings shared with the browser dashboard.
const (
	TextUnknown      = "Desconhecido"
	TextOffline      = "Servidor Offline"
	TextNoTimestamp  = "-"
	TextLoading      = "Carregando..."
	TextNoEvents     = "Nenhum evento de falha registrado."
	TextHistoryError = "Erro ao carregar histórico."
	TextShowHistory  = "Ver Histórico"
	TextHideHistory  = "Esconder Histórico"
)

// DefaultTimeLayout renders timestamps day first, like the dashboard's pt-BR locale.
const DefaultTimeLayout = "02/01/2006, 15:04:05"

// TimeFormatter renders wire timestamps in a local zone.
type TimeFormatter struct {
	Location *time.Location
	Layout   string
}

// Format renders an RFC 3339 timestamp. Empty input yields "-" and an
// unparseable one is shown as received.
func (f TimeFormatter) Format(ts string) string {
	if ts == "" {
		return TextNoTimestamp
	}
	t, err := time.Parse(types.TimeLayout, ts)
	if err != nil {
		return ts
	}
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return t.In(loc).Format(layout)
}

// Board is the poller's view state. It holds no I/O; callers feed it
// fetch results and read the fields back.
type Board struct {
	Label     string
	StatusKey string
	Updated   string
	UpdatedAt time.Time // zero when unknown

	HistoryVisible bool
	HistoryLines   []string

	format TimeFormatter
}

// NewBoard returns a board in its initial state.
func NewBoard(f TimeFormatter) *Board {
	b := &Board{format: f, Updated: TextNoTimestamp}
	b.setLabel("")
	return b
}

// ButtonText is the label of the history toggle.
func (b *Board) ButtonText() string {
	if b.HistoryVisible {
		return TextHideHistory
	}
	return TextShowHistory
}

// ApplyStatus folds one /status poll into the board. Any error shows the
// offline fallback.
func (b *Board) ApplyStatus(rec types.StatusRecord, err error) {
	if err != nil {
		b.setLabel(TextOffline)
		b.Updated = TextNoTimestamp
		b.UpdatedAt = time.Time{}
		return
	}
	b.setLabel(rec.PIX)
	b.Updated = TextNoTimestamp
	b.UpdatedAt = time.Time{}
	if rec.UpdatedAt != nil && *rec.UpdatedAt != "" {
		b.Updated = b.format.Format(*rec.UpdatedAt)
		if t, perr := time.Parse(types.TimeLayout, *rec.UpdatedAt); perr == nil {
			b.UpdatedAt = t
		}
	}
}

// ToggleHistory flips the history visibility. It returns true when the
// history became visible and must be fetched; the list then shows the
// loading line until ApplyHistory is called.
func (b *Board) ToggleHistory() bool {
	b.HistoryVisible = !b.HistoryVisible
	if !b.HistoryVisible {
		return false
	}
	b.HistoryLines = []string{TextLoading}
	return true
}

// ApplyHistory renders a /history result most recent first.
func (b *Board) ApplyHistory(entries []types.HistoryEntry, err error) {
	switch {
	case err != nil:
		b.HistoryLines = []string{TextHistoryError}
	case len(entries) == 0:
		b.HistoryLines = []string{TextNoEvents}
	default:
		lines := make([]string, 0, len(entries))
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			lines = append(lines, fmt.Sprintf("[%s] - %s reportou: %s", b.format.Format(e.Timestamp), e.Service, e.Status))
		}
		b.HistoryLines = lines
	}
}

// Plain renders the board as text without styling.
func (b *Board) Plain() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PIX: %s\n", b.Label)
	fmt.Fprintf(&sb, "Atualizado em: %s\n", b.Updated)
	if b.HistoryVisible {
		for _, l := range b.HistoryLines {
			sb.WriteString(l)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (b *Board) setLabel(label string) {
	if label == "" {
		label = TextUnknown
	}
	b.Label = label
	b.StatusKey = strings.ToLower(label)
}
