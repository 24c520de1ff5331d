package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/pixwatch/internal/domain/model"
	"github.com/okian/pixwatch/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewStatusRecord(t *testing.T) {
	Convey("Given a status that was never updated", t, func() {
		rec := types.NewStatusRecord(model.Status{Level: model.LevelUnknown})

		Convey("Then updated_at should encode as null", func() {
			b, err := json.Marshal(rec)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"PIX":"Desconhecido","updated_at":null}`)
		})
	})

	Convey("Given an updated status in another zone", t, func() {
		at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.FixedZone("BRT", -3*3600))
		rec := types.NewStatusRecord(model.Status{Level: model.LevelOK, UpdatedAt: at})

		Convey("Then updated_at should be UTC RFC 3339", func() {
			So(rec.PIX, ShouldEqual, "OK")
			So(rec.UpdatedAt, ShouldNotBeNil)
			So(*rec.UpdatedAt, ShouldEqual, "2025-03-01T12:30:00Z")
		})
	})
}

func TestNewHistory(t *testing.T) {
	Convey("Given no failure events", t, func() {
		h := types.NewHistory(nil)

		Convey("Then it should encode as an empty array", func() {
			b, err := json.Marshal(h)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "[]")
		})
	})

	Convey("Given failure events", t, func() {
		t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		h := types.NewHistory([]model.FailureEvent{
			{At: t0, Service: "Banco Central", Level: model.LevelSlow},
			{At: t0.Add(time.Minute), Service: "Banco Central", Level: model.LevelFlaky},
		})

		Convey("Then order and fields should be preserved", func() {
			So(h, ShouldHaveLength, 2)
			So(h[0], ShouldResemble, types.HistoryEntry{Timestamp: "2025-03-01T12:00:00Z", Service: "Banco Central", Status: "Lento"})
			So(h[1].Status, ShouldEqual, "Oscilando")
		})
	})
}
