package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/salesdeck/pulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDateRange(t *testing.T) {
	Convey("Given ISO date strings", t, func() {
		Convey("A valid pair parses into an inclusive range", func() {
			r, err := model.ParseDateRange("2025-10-01", "2025-10-07")
			So(err, ShouldBeNil)
			So(r.StartString(), ShouldEqual, "2025-10-01")
			So(r.EndString(), ShouldEqual, "2025-10-07")
		})

		Convey("A reversed pair is rejected, not swapped", func() {
			_, err := model.ParseDateRange("2025-10-07", "2025-10-01")
			So(err, ShouldNotBeNil)
			So(errors.Is(err, model.ErrReversedRange), ShouldBeTrue)
		})

		Convey("Garbage dates are rejected", func() {
			_, err := model.ParseDateRange("last tuesday", "2025-10-01")
			So(err, ShouldNotBeNil)
		})

		Convey("A single-day range is valid", func() {
			r, err := model.ParseDateRange("2025-10-05", "2025-10-05")
			So(err, ShouldBeNil)
			So(r.Contains(time.Date(2025, 10, 5, 14, 22, 23, 0, time.UTC)), ShouldBeTrue)
		})
	})

	Convey("Given a parsed range", t, func() {
		r, err := model.ParseDateRange("2025-10-01", "2025-10-07")
		So(err, ShouldBeNil)

		Convey("Timestamps on either bound are included", func() {
			So(r.Contains(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(r.Contains(time.Date(2025, 10, 7, 23, 59, 59, 0, time.UTC)), ShouldBeTrue)
		})

		Convey("Timestamps one day outside either bound are excluded", func() {
			So(r.Contains(time.Date(2025, 9, 30, 23, 59, 59, 0, time.UTC)), ShouldBeFalse)
			So(r.Contains(time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC)), ShouldBeFalse)
		})
	})

	Convey("Given a lookback count", t, func() {
		now := time.Date(2025, 10, 26, 18, 30, 0, 0, time.UTC)

		Convey("The range covers n days back through today", func() {
			r := model.Lookback(7, now)
			So(r.StartString(), ShouldEqual, "2025-10-19")
			So(r.EndString(), ShouldEqual, "2025-10-26")
		})

		Convey("A non-positive count falls back to one day", func() {
			r := model.Lookback(0, now)
			So(r.StartString(), ShouldEqual, "2025-10-25")
			So(r.EndString(), ShouldEqual, "2025-10-26")
		})
	})
}
