package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pitchside/refrank/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"REFRANK_CONFIG",
		"REFRANK_ADDR",
		"REFRANK_QUEUE_SIZE",
		"REFRANK_WORKER_COUNT",
		"REFRANK_DEDUPE_SIZE",
		"REFRANK_MAX_LEADERBOARD_LIMIT",
		"REFRANK_ROLLING_WINDOW",
		"REFRANK_MIN_MULTIPLIER",
		"REFRANK_MAX_MULTIPLIER",
		"REFRANK_LOG_LEVEL",
		"REFRANK_POSTGRES_DSN",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 100_000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
				convey.So(cfg.RollingWindow, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("REFRANK_ADDR", ":8080")
			_ = os.Setenv("REFRANK_QUEUE_SIZE", "50000")
			_ = os.Setenv("REFRANK_WORKER_COUNT", "16")
			_ = os.Setenv("REFRANK_ROLLING_WINDOW", "10")
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 50000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.RollingWindow, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()

			yamlContent := `
addr: ":7070"
rolling_window: 3
component_weights:
  decision_accuracy: 0.25
  foul_management: 0.25
  var_accuracy: 0.25
  game_flow: 0.25
`
			path := filepath.Join(t.TempDir(), "refrank.yaml")
			convey.So(os.WriteFile(path, []byte(yamlContent), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("REFRANK_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load()

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.RollingWindow, convey.ShouldEqual, 3)
				convey.So(cfg.ComponentWeights.DecisionAccuracy, convey.ShouldEqual, 0.25)
			})
		})

		convey.Convey("When a loaded config fails validation", func() {
			clearConfigEnvVars()
			_ = os.Setenv("REFRANK_ROLLING_WINDOW", "0")
			defer clearConfigEnvVars()

			_, err := config.Load()

			convey.Convey("Then loading reports a configuration fault", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("REFRANK_CONFIG", "/nonexistent/refrank.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load()

			convey.Convey("Then loading fails with ErrLoadConfig", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}
