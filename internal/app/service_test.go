package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	service "github.com/okian/pixwatch/internal/app"
	"github.com/okian/pixwatch/internal/domain/model"
	"github.com/okian/pixwatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// scriptedProber returns queued results per target; an empty queue repeats
// the last result.
type scriptedProber struct {
	mu      sync.Mutex
	results map[string][]model.ProbeResult
	last    map[string]model.ProbeResult
	panicOn string
}

func newScriptedProber() *scriptedProber {
	return &scriptedProber{
		results: make(map[string][]model.ProbeResult),
		last:    make(map[string]model.ProbeResult),
	}
}

func (p *scriptedProber) push(target string, ok bool, latency time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	r := model.ProbeResult{Target: target, OK: ok, Latency: latency}
	if !ok {
		r.Stage = "tcp"
		r.Err = errors.New("connection refused")
	}
	p.results[target] = append(p.results[target], r)
}

func (p *scriptedProber) Probe(_ context.Context, t model.Target) model.ProbeResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t.Name == p.panicOn {
		panic("probe exploded")
	}
	q := p.results[t.Name]
	if len(q) == 0 {
		if r, ok := p.last[t.Name]; ok {
			return r
		}
		return model.ProbeResult{Target: t.Name, OK: true, Latency: 100 * time.Millisecond}
	}
	r := q[0]
	p.results[t.Name] = q[1:]
	p.last[t.Name] = r
	return r
}

func fixedClock() func() time.Time {
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should not be started", func() {
			So(svc, ShouldNotBeNil)
			So(svc.GetStats()["started"], ShouldEqual, false)
			_, err := svc.Status(context.Background())
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})

	Convey("Given targets without a primary", t, func() {
		svc := service.New(service.WithTargets([]model.Target{{Name: "a", Host: "a.example"}}))

		Convey("Then Init should fail", func() {
			So(svc.Init(context.Background()), ShouldNotBeNil)
		})
	})
}

func TestService_Check(t *testing.T) {
	Convey("Given an initialized service with a scripted prober", t, func() {
		ctx := context.Background()
		prober := newScriptedProber()
		svc := service.New(service.WithProber(prober), service.WithClock(fixedClock()))
		So(svc.Init(ctx), ShouldBeNil)

		Convey("When nothing has been checked", func() {
			st, err := svc.Status(ctx)

			Convey("Then the status should be unknown", func() {
				So(err, ShouldBeNil)
				So(st.Level, ShouldEqual, model.LevelUnknown)
				So(st.UpdatedAt.IsZero(), ShouldBeTrue)
			})
		})

		Convey("When the primary answers fast", func() {
			prober.push("Banco Central", true, 120*time.Millisecond)
			svc.Check(ctx)
			st, _ := svc.Status(ctx)

			Convey("Then the status should be OK and stamped", func() {
				So(st.Level, ShouldEqual, model.LevelOK)
				So(st.UpdatedAt, ShouldEqual, fixedClock()())
			})
		})

		Convey("When the primary goes from OK to slow", func() {
			prober.push("Banco Central", true, 100*time.Millisecond)
			svc.Check(ctx)
			for i := 0; i < 10; i++ {
				prober.push("Banco Central", true, 6*time.Second)
				svc.Check(ctx)
			}
			st, _ := svc.Status(ctx)
			h, err := svc.History(ctx)

			Convey("Then one failure event should blame the primary", func() {
				So(err, ShouldBeNil)
				So(st.Level, ShouldEqual, model.LevelFlaky)
				So(h, ShouldHaveLength, 1)
				So(h[0].Service, ShouldEqual, "Banco Central")
				So(h[0].Level, ShouldEqual, model.LevelSlow)
			})
		})

		Convey("When the primary fails three times in a row after OK", func() {
			prober.push("Banco Central", true, 100*time.Millisecond)
			svc.Check(ctx)
			for i := 0; i < 3; i++ {
				prober.push("Banco Central", false, 0)
				svc.Check(ctx)
			}
			st, _ := svc.Status(ctx)
			h, _ := svc.History(ctx)

			Convey("Then the status should be flaky with one logged event", func() {
				So(st.Level, ShouldEqual, model.LevelFlaky)
				So(h, ShouldHaveLength, 1)
				So(h[0].Level, ShouldEqual, model.LevelFlaky)
			})
		})

		Convey("When only the secondary target fails", func() {
			for i := 0; i < 5; i++ {
				prober.push("Mercado Pago", false, 0)
				svc.Check(ctx)
			}
			st, _ := svc.Status(ctx)

			Convey("Then the status should stay OK", func() {
				So(st.Level, ShouldEqual, model.LevelOK)
				So(svc.GetStats()["estimates"], ShouldResemble, map[string]string{
					"Banco Central": "OK",
					"Mercado Pago":  "Oscilando",
				})
			})
		})

		Convey("When a probe panics", func() {
			svc.Check(ctx)
			prober.mu.Lock()
			prober.panicOn = "Mercado Pago"
			prober.mu.Unlock()
			So(func() { svc.Check(ctx) }, ShouldNotPanic)
			st, _ := svc.Status(ctx)

			Convey("Then the status should fall back to unknown", func() {
				So(st.Level, ShouldEqual, model.LevelUnknown)
				h, _ := svc.History(ctx)
				So(h, ShouldBeEmpty)
			})
		})
	})
}

func TestService_StartStop(t *testing.T) {
	Convey("Given a service with a short schedule", t, func() {
		prober := newScriptedProber()
		svc := service.New(
			service.WithProber(prober),
			service.WithInitialDelay(0),
			service.WithCheckInterval(10*time.Millisecond),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When started", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then cycles should run and publish a status", func() {
				deadline := time.Now().Add(2 * time.Second)
				for time.Now().Before(deadline) {
					if st, _ := svc.Status(ctx); st.Level == model.LevelOK {
						break
					}
					time.Sleep(5 * time.Millisecond)
				}
				st, _ := svc.Status(ctx)
				So(st.Level, ShouldEqual, model.LevelOK)
				So(svc.GetStats()["started"], ShouldEqual, true)

				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}
