package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/skillforge/engine/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	convey.Convey("Given an initialized global logger", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		ctx := context.Background()

		convey.Convey("When getting the global logger", func() {
			log := logger.Get()

			convey.Convey("Then it should log at every level without panicking", func() {
				convey.So(log, convey.ShouldNotBeNil)
				convey.So(func() {
					log.Debug(ctx, "debug message")
					log.Info(ctx, "info message", logger.String("key", "value"))
					log.Warn(ctx, "warn message", logger.Int("count", 3))
					log.Error(ctx, "error message", logger.Error(errors.New("boom")))
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When deriving a named logger", func() {
			named := logger.Named("worker")

			convey.Convey("Then it should be usable independently", func() {
				convey.So(named, convey.ShouldNotBeNil)
				convey.So(func() {
					named.Info(ctx, "named message", logger.Int64("id", 42))
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When setting levels by name", func() {
			convey.Convey("Then known names should be accepted", func() {
				for _, level := range []string{"debug", "info", "INFO", "warn", "warning", "error", ""} {
					convey.So(logger.SetLevelString(level), convey.ShouldBeNil)
				}
			})

			convey.Convey("Then unknown names should be rejected", func() {
				convey.So(logger.SetLevelString("verbose"), convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When building fields", func() {
			convey.Convey("Then constructors should carry key and value", func() {
				convey.So(logger.String("a", "b").Key, convey.ShouldEqual, "a")
				convey.So(logger.Float64("score", 1.5).Value, convey.ShouldEqual, 1.5)
				convey.So(logger.Any("obj", []int{1}).Key, convey.ShouldEqual, "obj")
				convey.So(logger.Error(errors.New("x")).Key, convey.ShouldEqual, "error")
			})
		})
	})
}
