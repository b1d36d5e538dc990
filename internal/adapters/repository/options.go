package repository

import "github.com/okian/betsafe/pkg/logger"

// Format selects the dataset file decoder.
type Format string

const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Option applies a configuration option to the dataset loader.
type Option func(*loader)

// WithFormat forces a decoder instead of detecting it from the file extension.
func WithFormat(f Format) Option {
	return func(l *loader) {
		l.format = f
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(log logger.Logger) Option {
	return func(l *loader) {
		if log != nil {
			l.logger = log
		}
	}
}
