// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
// - External errors are wrapped with this package's sentinel kinds.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath points at the predictions file (JSON or YAML).
	DatasetPath string `koanf:"dataset_path"`

	// MaxTopK caps POST /top?k.
	MaxTopK int `koanf:"max_top_k"`

	// MaxPredictionsLimit caps GET /predictions?limit.
	MaxPredictionsLimit int `koanf:"max_predictions_limit"`

	// MaxRankBets caps the number of bets accepted by /rank and /top.
	MaxRankBets int `koanf:"max_rank_bets"`

	// EnrichBaseURL is the player profile API root.
	EnrichBaseURL string `koanf:"enrich_base_url"`

	// EnrichAPIKey authorizes profile lookups. Empty disables enrichment.
	EnrichAPIKey string `koanf:"enrich_api_key"`

	// EnrichTimeoutMS bounds a single profile lookup.
	EnrichTimeoutMS int `koanf:"enrich_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		DatasetPath:         "data/predictions.json",
		MaxTopK:             50,
		MaxPredictionsLimit: 100,
		MaxRankBets:         500,
		EnrichBaseURL:       "https://api.balldontlie.io/v1",
		EnrichAPIKey:        "",
		EnrichTimeoutMS:     2000,
	}
}

// EnrichTimeout returns EnrichTimeoutMS as a duration.
func (c *Config) EnrichTimeout() time.Duration {
	return time.Duration(c.EnrichTimeoutMS) * time.Millisecond
}
