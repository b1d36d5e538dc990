package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/betsafe/internal/config"
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
				convey.So(cfg.DatasetPath, convey.ShouldEqual, "data/predictions.json")
				convey.So(cfg.MaxTopK, convey.ShouldEqual, 50)
				convey.So(cfg.EnrichBaseURL, convey.ShouldEqual, "https://api.balldontlie.io/v1")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BETSAFE_ADDR", ":8080")
			_ = os.Setenv("BETSAFE_DATASET_PATH", "/srv/predictions.yaml")
			_ = os.Setenv("BETSAFE_MAX_TOP_K", "10")
			_ = os.Setenv("BETSAFE_ENRICH_API_KEY", "secret")
			_ = os.Setenv("BETSAFE_ENRICH_TIMEOUT_MS", "750")
			_ = os.Setenv("BETSAFE_LOG_FORMAT", "json")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DatasetPath, convey.ShouldEqual, "/srv/predictions.yaml")
				convey.So(cfg.MaxTopK, convey.ShouldEqual, 10)
				convey.So(cfg.EnrichAPIKey, convey.ShouldEqual, "secret")
				convey.So(cfg.EnrichTimeout(), convey.ShouldEqual, 750*time.Millisecond)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.MaxPredictionsLimit, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
dataset_path: "testdata/predictions.json"
max_top_k: 5
max_predictions_limit: 20
log_level: debug
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BETSAFE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DatasetPath, convey.ShouldEqual, "testdata/predictions.json")
				convey.So(cfg.MaxTopK, convey.ShouldEqual, 5)
				convey.So(cfg.MaxPredictionsLimit, convey.ShouldEqual, 20)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_top_k: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BETSAFE_CONFIG", tmpFile)
			_ = os.Setenv("BETSAFE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080") // env
				convey.So(cfg.MaxTopK, convey.ShouldEqual, 5)    // file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile("addr: [unterminated\n")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("BETSAFE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("BETSAFE_CONFIG", "/nonexistent/betsafe.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("BETSAFE_MAX_TOP_K", "many")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given configs that violate one rule each", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }},
			{"empty dataset path", func(c *config.Config) { c.DatasetPath = "" }},
			{"zero max top k", func(c *config.Config) { c.MaxTopK = 0 }},
			{"negative limit", func(c *config.Config) { c.MaxPredictionsLimit = -1 }},
			{"zero rank bets", func(c *config.Config) { c.MaxRankBets = 0 }},
			{"zero enrich timeout", func(c *config.Config) { c.EnrichTimeoutMS = 0 }},
			{"unsupported log format", func(c *config.Config) { c.LogFormat = "xml" }},
		}

		for _, tc := range cases {
			cfg := config.New()
			tc.mutate(cfg)
			convey.Convey("Then "+tc.name+" should be rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given an empty addr from the environment", t, func() {
		_ = os.Setenv("BETSAFE_ADDR", "")
		defer clearConfigEnvVars()

		cfg, err := config.Load(context.Background())

		convey.Convey("Then Load should return a validation error", func() {
			convey.So(cfg, convey.ShouldBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"BETSAFE_CONFIG",
		"BETSAFE_ADDR",
		"BETSAFE_DATASET_PATH",
		"BETSAFE_MAX_TOP_K",
		"BETSAFE_MAX_PREDICTIONS_LIMIT",
		"BETSAFE_ENRICH_API_KEY",
		"BETSAFE_ENRICH_TIMEOUT_MS",
		"BETSAFE_LOG_FORMAT",
		"BETSAFE_LOG_LEVEL",
		"BETSAFE_MAX_RANK_BETS",
		"BETSAFE_ENRICH_BASE_URL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "betsafe-config-*.yaml")
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

func TestExampleConfig(t *testing.T) {
	convey.Convey("Given the example config shipped with the repo", t, func() {
		clearConfigEnvVars()
		_ = os.Setenv("BETSAFE_CONFIG", "../../config.example.yaml")
		defer clearConfigEnvVars()

		convey.Convey("Then it should load and match the defaults", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(*cfg, convey.ShouldResemble, *config.New())
		})
	})
}
