package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	app "github.com/okian/pixwatch/internal/app"
	"github.com/okian/pixwatch/internal/config"
	"github.com/okian/pixwatch/internal/domain/model"
	"github.com/okian/pixwatch/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type okProber struct{}

func (okProber) Probe(_ context.Context, t model.Target) model.ProbeResult {
	return model.ProbeResult{Target: t.Name, OK: true, Latency: 50 * time.Millisecond, At: time.Now()}
}

func TestServiceOptions(t *testing.T) {
	convey.Convey("Given the default configuration", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When building a service from it", func() {
			opts := append(serviceOptions(cfg, logger.Get()), app.WithProber(okProber{}))
			svc := app.New(opts...)

			convey.Convey("Then the service should reflect the configuration", func() {
				convey.So(svc.Init(context.Background()), convey.ShouldBeNil)
				stats := svc.GetStats()
				convey.So(stats["targets"], convey.ShouldEqual, len(cfg.Targets))
				convey.So(stats["checkIntervalMs"], convey.ShouldEqual, int64(cfg.CheckIntervalMS))
			})
		})
	})
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a mux over an initialized service", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithProber(okProber{}))
		convey.So(svc.Init(ctx), convey.ShouldBeNil)
		svc.Check(ctx)
		mux := newMux(ctx, svc)

		get := func(path string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		convey.Convey("Then every route should answer", func() {
			for _, path := range []string{"/", "/status", "/history", "/stats", "/healthz", "/openapi.yaml", "/api-docs"} {
				convey.So(get(path).Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("And /status should report the checked level", func() {
			convey.So(get("/status").Body.String(), convey.ShouldContainSubstring, `"PIX":"OK"`)
		})

		convey.Convey("And unknown paths should fall through to not found", func() {
			convey.So(get("/nope").Code, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestAddressHelpers(t *testing.T) {
	convey.Convey("Given listen addresses", t, func() {
		convey.Convey("Then the port should be extracted", func() {
			convey.So(port(":5001"), convey.ShouldEqual, "5001")
			convey.So(port("0.0.0.0:8080"), convey.ShouldEqual, "8080")
			convey.So(port("bogus"), convey.ShouldEqual, "80")
		})
	})

	convey.Convey("Given the local network", t, func() {
		convey.Convey("Then lanIP should return an IP address", func() {
			convey.So(net.ParseIP(lanIP(context.Background())), convey.ShouldNotBeNil)
		})
	})
}

func TestSystemMetricsUpdater(t *testing.T) {
	convey.Convey("Given a short-lived context", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		convey.Convey("Then the updater should return once it is cancelled", func() {
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("updater did not stop")
			}
		})
	})
}
