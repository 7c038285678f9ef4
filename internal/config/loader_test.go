package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/skillforge/engine/internal/config"
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
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 100_000)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
				convey.So(cfg.MaxRecommendations, convey.ShouldEqual, 10)
				convey.So(cfg.ReviewScoreThreshold, convey.ShouldEqual, 70.0)
				convey.So(cfg.PracticeScoreThreshold, convey.ShouldEqual, 80.0)
				convey.So(cfg.PositiveSentimentThreshold, convey.ShouldEqual, 0.5)
				convey.So(cfg.EnrolledLowScoreBoost, convey.ShouldEqual, 50.0)
				convey.So(cfg.PositiveFeedbackBoost, convey.ShouldEqual, 30.0)
				convey.So(cfg.PopularCourseBoost, convey.ShouldEqual, 40.0)
				convey.So(cfg.PopularityBoostMinEnrollments, convey.ShouldEqual, 10)
				convey.So(cfg.RatingBoostThreshold, convey.ShouldEqual, 3.5)
				convey.So(cfg.SentimentStep, convey.ShouldEqual, 0.15)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SKILLFORGE_ADDR", ":8080")
			_ = os.Setenv("SKILLFORGE_QUEUE_SIZE", "5000")
			_ = os.Setenv("SKILLFORGE_WORKER_COUNT", "4")
			_ = os.Setenv("SKILLFORGE_MAX_RECOMMENDATIONS", "5")
			_ = os.Setenv("SKILLFORGE_REVIEW_SCORE_THRESHOLD", "65.5")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 5000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.MaxRecommendations, convey.ShouldEqual, 5)
				convey.So(cfg.ReviewScoreThreshold, convey.ShouldEqual, 65.5)
				convey.So(cfg.SentimentStep, convey.ShouldEqual, 0.15) // untouched default
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
queue_size: 2000
worker_count: 8
dedupe_size: 1000
positive_sentiment_threshold: 0.4
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLFORGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 2000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 8)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 1000)
				convey.So(cfg.PositiveSentimentThreshold, convey.ShouldEqual, 0.4)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
queue_size: 2000
worker_count: 8
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLFORGE_CONFIG", tmpFile)
			_ = os.Setenv("SKILLFORGE_ADDR", ":8080")
			_ = os.Setenv("SKILLFORGE_WORKER_COUNT", "16")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")          // Overridden by env
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 2000)   // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)        // Overridden by env
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLFORGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SKILLFORGE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SKILLFORGE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a non-positive queue size", func() {
			_ = os.Setenv("SKILLFORGE_QUEUE_SIZE", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with a negative scan cap", func() {
			_ = os.Setenv("SKILLFORGE_MAX_ATTEMPTS_SCANNED", "-1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
worker_count: 6
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLFORGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")           // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 6)          // From file
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 100_000) // From defaults
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)      // From defaults
				convey.So(cfg.PopularCourseBoost, convey.ShouldEqual, 40.0)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SKILLFORGE_QUEUE_SIZE", "invalid")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SKILLFORGE_CONFIG",
		"SKILLFORGE_ADDR",
		"SKILLFORGE_QUEUE_SIZE",
		"SKILLFORGE_WORKER_COUNT",
		"SKILLFORGE_DEDUPE_SIZE",
		"SKILLFORGE_MAX_RECOMMENDATIONS",
		"SKILLFORGE_REVIEW_SCORE_THRESHOLD",
		"SKILLFORGE_MAX_ATTEMPTS_SCANNED",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "skillforge-config-*.yaml")
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
