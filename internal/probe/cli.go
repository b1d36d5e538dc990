package probe

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/okian/betsafe/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging sends probe logs to stdout and, when logFile is set, to
// that file as well.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.InitWith(w, logger.FormatText); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	if logFile != "" {
		logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	}
	return nil
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`betsafe probe
=============

Fires generated lines at a running betsafe service and checks every
evaluation and ranking it returns.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -requests int
        Number of /evaluate requests (default 1000)
  -batches int
        Number of /rank + /top batches (default 100)
  -batch-size int
        Bets per batch (default 10)
  -k int
        k passed to /top (default 3)
  -sample int
        Dataset rows fetched from /predictions (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -seed uint
        Seed for line generation (default: clock)
  -timeout duration
        HTTP request timeout (default 10s)
  -output string
        Write a JSON report to this file
  -log string
        Also log to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/probe
  go run ./cmd/probe -requests 20000 -workers 32 -url http://localhost:8080
  go run ./cmd/probe -seed 42 -output reports/probe.json
`)
}
