package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/mimic/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.DefaultLimit, convey.ShouldEqual, 10)
			convey.So(cfg.MaxLimit, convey.ShouldEqual, 100)
			convey.So(cfg.JournalSize, convey.ShouldEqual, 4096)
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.HistoryLimit, convey.ShouldEqual, 20)
			convey.So(cfg.ReplayCacheSize, convey.ShouldEqual, 50_000)
		})
	})
}
