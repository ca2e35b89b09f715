package config_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/okian/nutriscreen/internal/config"
	"github.com/okian/nutriscreen/internal/domain/reference"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.RoundingPrecision, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("NUTRI_ADDR", ":8080")
			_ = os.Setenv("NUTRI_QUEUE_SIZE", "500")
			_ = os.Setenv("NUTRI_WORKER_COUNT", "16")
			_ = os.Setenv("NUTRI_PREGNANCY_SECONDARY_THRESHOLD_ENABLED", "true")
			_ = os.Setenv("NUTRI_ROUNDING_PRECISION", "3")
			_ = os.Setenv("NUTRI_MAX_RECORDS", "0")
			_ = os.Setenv("NUTRI_Z_SCORE_STRATEGY__BMI_FOR_AGE", "nearest")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.PregnancySecondaryThreshold, convey.ShouldBeTrue)
				convey.So(cfg.RoundingPrecision, convey.ShouldEqual, 3)
				convey.So(cfg.MaxRecords, convey.ShouldEqual, 0)

				s, err := cfg.Strategies()
				convey.So(err, convey.ShouldBeNil)
				convey.So(s[reference.BMIForAge], convey.ShouldEqual, reference.Nearest)
				convey.So(s[reference.WeightForAge], convey.ShouldEqual, reference.Interpolate)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
queue_size: 3000
log_format: json
pregnancy_min_age_years: 20
z_score_strategy:
  weight_for_height: nearest
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("NUTRI_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 3000)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.PregnancyMinAgeYears, convey.ShouldEqual, 20)
				convey.So(cfg.ZScoreStrategy["weight_for_height"], convey.ShouldEqual, "nearest")
				convey.So(cfg.ZScoreStrategy["height_for_age"], convey.ShouldEqual, "interpolate")
			})
		})

		convey.Convey("When both file and environment set a value", func() {
			tmpFile := createTempConfigFile("addr: \":9090\"\nworker_count: 24\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("NUTRI_CONFIG", tmpFile)
			_ = os.Setenv("NUTRI_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables win", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)
			})
		})

		convey.Convey("When the YAML file is malformed", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("NUTRI_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_ = os.Setenv("NUTRI_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a numeric variable is not a number", func() {
			_ = os.Setenv("NUTRI_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When addr is emptied", func() {
			_ = os.Setenv("NUTRI_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a strategy is unknown", func() {
			_ = os.Setenv("NUTRI_Z_SCORE_STRATEGY__HEIGHT_FOR_AGE", "spline")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) {
			_ = os.Unsetenv(name)
		}
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "nutri-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
