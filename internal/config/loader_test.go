package config_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/okian/mimic/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 10)
				convey.So(cfg.MaxLimit, convey.ShouldEqual, 100)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MIMIC_ADDR", ":9000")
			_ = os.Setenv("MIMIC_MAX_LIMIT", "50")
			_ = os.Setenv("MIMIC_DEFAULT_LIMIT", "5")
			_ = os.Setenv("MIMIC_WORKER_COUNT", "3")
			_ = os.Setenv("MIMIC_JOURNAL_SIZE", "128")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9000")
				convey.So(cfg.MaxLimit, convey.ShouldEqual, 50)
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 5)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
				convey.So(cfg.JournalSize, convey.ShouldEqual, 128)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars()

			dir := t.TempDir()
			path := filepath.Join(dir, "mimic.yaml")
			yaml := "addr: \":7070\"\nmax_limit: 200\nhistory_limit: 40\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("MIMIC_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.MaxLimit, convey.ShouldEqual, 200)
				convey.So(cfg.HistoryLimit, convey.ShouldEqual, 40)
				// Untouched keys keep their defaults.
				convey.So(cfg.DefaultLimit, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When env vars and a YAML file are both present", func() {
			clearConfigEnvVars()

			dir := t.TempDir()
			path := filepath.Join(dir, "mimic.yaml")
			yaml := "addr: \":7070\"\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("MIMIC_CONFIG", path)
			_ = os.Setenv("MIMIC_ADDR", ":7071")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars should win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7071")
			})
		})

		convey.Convey("When configuration values are invalid", func() {
			clearConfigEnvVars()

			convey.Convey("Then a zero max_limit should be rejected", func() {
				_ = os.Setenv("MIMIC_MAX_LIMIT", "0")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
			})

			convey.Convey("And a default_limit above max_limit should be rejected", func() {
				_ = os.Setenv("MIMIC_MAX_LIMIT", "10")
				_ = os.Setenv("MIMIC_DEFAULT_LIMIT", "20")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
			})

			convey.Convey("And a negative worker_count should be rejected", func() {
				_ = os.Setenv("MIMIC_WORKER_COUNT", "-1")
				defer clearConfigEnvVars()

				_, err := config.Load(ctx)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"MIMIC_CONFIG",
		"MIMIC_ADDR",
		"MIMIC_LOG_LEVEL",
		"MIMIC_DEFAULT_LIMIT",
		"MIMIC_MAX_LIMIT",
		"MIMIC_JOURNAL_SIZE",
		"MIMIC_QUEUE_SIZE",
		"MIMIC_WORKER_COUNT",
		"MIMIC_HISTORY_LIMIT",
		"MIMIC_REPLAY_CACHE_SIZE",
	} {
		_ = os.Unsetenv(key)
	}
}
