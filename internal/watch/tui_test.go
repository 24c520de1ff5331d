package watch_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okian/pixwatch/internal/domain/types"
	"github.com/okian/pixwatch/internal/watch"
	"github.com/okian/pixwatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWithWriter(&bytes.Buffer{}); err != nil {
		panic(err)
	}
}

type fakeFetcher struct {
	mu           sync.Mutex
	status       types.StatusRecord
	statusErr    error
	history      []types.HistoryEntry
	historyErr   error
	historyCalls int
}

func (f *fakeFetcher) FetchStatus(context.Context) (types.StatusRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, f.statusErr
}

func (f *fakeFetcher) FetchHistory(context.Context) ([]types.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	return f.history, f.historyErr
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive feeds msg to m and runs the returned command once when it is a
// plain fetch. Batches are skipped because they contain timers.
func drive(m tea.Model, msg tea.Msg) tea.Model {
	m, cmd := m.Update(msg)
	if cmd == nil {
		return m
	}
	next := cmd()
	if _, isBatch := next.(tea.BatchMsg); isBatch {
		return m
	}
	if next == nil {
		return m
	}
	m, _ = m.Update(next)
	return m
}

func TestModel(t *testing.T) {
	Convey("Given a model over a fake monitor", t, func() {
		ctx := context.Background()
		f := &fakeFetcher{
			status: types.StatusRecord{PIX: "OK", UpdatedAt: strptr("2025-03-01T12:00:00Z")},
		}
		board := newBoard()
		var m tea.Model = watch.NewModel(ctx, f, board, time.Hour)

		Convey("When a refresh is requested", func() {
			m = drive(m, key("r"))

			Convey("Then the board should show the fetched status", func() {
				So(board.Label, ShouldEqual, "OK")
				So(board.Updated, ShouldEqual, "01/03/2025, 09:00:00")
				So(m.View(), ShouldContainSubstring, "OK")
				So(m.View(), ShouldContainSubstring, "Ver Histórico")
			})
		})

		Convey("When the monitor is down", func() {
			f.statusErr = errors.New("connection refused")
			m = drive(m, key("r"))

			Convey("Then the offline fallback should show", func() {
				So(board.Label, ShouldEqual, "Servidor Offline")
				So(board.Updated, ShouldEqual, "-")
			})
		})

		Convey("When the history is toggled on and off twice", func() {
			f.history = []types.HistoryEntry{
				{Timestamp: "2025-03-01T12:00:00Z", Service: "Banco Central", Status: "Lento"},
				{Timestamp: "2025-03-01T13:00:00Z", Service: "Banco Central", Status: "Oscilando"},
			}
			m = drive(m, key("h"))
			So(f.historyCalls, ShouldEqual, 1)
			So(board.HistoryLines[0], ShouldContainSubstring, "Oscilando")

			m = drive(m, key("h"))
			So(board.HistoryVisible, ShouldBeFalse)
			m = drive(m, key("h"))

			Convey("Then history should be fetched once per show", func() {
				So(f.historyCalls, ShouldEqual, 2)
				So(m.View(), ShouldContainSubstring, "Esconder Histórico")
				So(m.View(), ShouldContainSubstring, "Banco Central reportou: Lento")
			})
		})

		Convey("When q is pressed", func() {
			_, cmd := m.Update(key("q"))

			Convey("Then the program should quit", func() {
				So(cmd, ShouldNotBeNil)
				So(cmd(), ShouldResemble, tea.Quit())
			})
		})
	})
}

func TestRunOnce(t *testing.T) {
	Convey("Given a fake monitor", t, func() {
		ctx := context.Background()
		f := &fakeFetcher{
			status: types.StatusRecord{PIX: "Lento", UpdatedAt: strptr("2025-03-01T12:00:00Z")},
		}
		opts := watch.Options{Location: saoPaulo}

		Convey("When it answers", func() {
			var out bytes.Buffer
			err := watch.RunOnce(ctx, f, opts, &out)

			Convey("Then status and history should be printed", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldEqual,
					"PIX: Lento\nAtualizado em: 01/03/2025, 09:00:00\nNenhum evento de falha registrado.\n")
			})
		})

		Convey("When the status fetch fails", func() {
			f.statusErr = watch.ErrUnexpectedStatus
			var out bytes.Buffer
			err := watch.RunOnce(ctx, f, opts, &out)

			Convey("Then the fallback should be printed and the error returned", func() {
				So(errors.Is(err, watch.ErrUnexpectedStatus), ShouldBeTrue)
				So(out.String(), ShouldStartWith, "PIX: Servidor Offline\nAtualizado em: -\n")
			})
		})
	})
}
