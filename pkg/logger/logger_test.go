package logger_test

import (
	"context"
	"testing"

	"github.com/salesdeck/pulse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerLifecycle(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		err := logger.Init()
		So(err, ShouldBeNil)

		Convey("Then the global logger is available", func() {
			So(logger.Get(), ShouldNotBeNil)
		})

		Convey("Then named loggers can be derived", func() {
			named := logger.Named("reconcile")
			So(named, ShouldNotBeNil)

			// Logging must not panic with mixed field types.
			named.Info(context.Background(), "merged rows",
				logger.Int("rows", 3),
				logger.String("range", "2025-10-01..2025-10-07"),
				logger.Any("degraded", false))
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Known names are accepted", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", "", "  Info "} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Unknown names are rejected", func() {
			So(logger.SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
