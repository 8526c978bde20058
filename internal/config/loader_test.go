package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/campuslabs/clubpulse/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"CLUBPULSE_CONFIG",
		"CLUBPULSE_ADDR",
		"CLUBPULSE_LOG_LEVEL",
		"CLUBPULSE_OUTPUT_DIR",
		"CLUBPULSE_POPULARITY_CEILING",
		"CLUBPULSE_MAX_UPLOAD_BYTES",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.OutputDir, convey.ShouldEqual, "outputs")
				convey.So(cfg.PopularityCeiling, convey.ShouldEqual, 5.0)
				convey.So(cfg.MaxUploadBytes, convey.ShouldEqual, int64(32<<20))
			})

			convey.Convey("And the default weights sum to 1", func() {
				convey.So(err, convey.ShouldBeNil)
				sum := 0.0
				for _, w := range cfg.MetricWeights {
					sum += w
				}
				convey.So(sum, convey.ShouldAlmostEqual, 1.0)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CLUBPULSE_ADDR", ":9090")
			_ = os.Setenv("CLUBPULSE_OUTPUT_DIR", "/tmp/results")
			_ = os.Setenv("CLUBPULSE_POPULARITY_CEILING", "10")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.OutputDir, convey.ShouldEqual, "/tmp/results")
				convey.So(cfg.PopularityCeiling, convey.ShouldEqual, 10.0)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()
			yamlContent := `
addr: ":7070"
log_level: debug
metric_weights:
  heard: 0.5
  participation: 0.5
`
			tmpFile := filepath.Join(t.TempDir(), "config.yaml")
			convey.So(os.WriteFile(tmpFile, []byte(yamlContent), 0o600), convey.ShouldBeNil)

			cfg, err := config.Load(ctx, tmpFile)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.MetricWeights["heard"], convey.ShouldEqual, 0.5)
			})
		})

		convey.Convey("When validation fails", func() {
			_ = os.Setenv("CLUBPULSE_ADDR", "")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx, "")

			convey.Convey("Then it reports an invalid config kind", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()

			_, err := config.Load(ctx, "/nonexistent/config.yaml")

			convey.Convey("Then it reports a load failure", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}
