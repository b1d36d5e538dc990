package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/betsafe/internal/probe"
)

// Default configuration constants.
const (
	defaultRequests     = 1000
	defaultBatches      = 100
	defaultBatchSize    = 10
	defaultTopK         = 3
	defaultSample       = 100
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 10 * time.Second
	defaultProbeTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		requests   = flag.Int("requests", defaultRequests, "Number of /evaluate requests")
		batches    = flag.Int("batches", defaultBatches, "Number of /rank + /top batches")
		batchSize  = flag.Int("batch-size", defaultBatchSize, "Bets per batch")
		topK       = flag.Int("k", defaultTopK, "k passed to /top")
		sample     = flag.Int("sample", defaultSample, "Dataset rows fetched from /predictions")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		seed       = flag.Uint64("seed", 0, "Seed for line generation (default: clock)")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write a JSON report to this file")
		logFile    = flag.String("log", "", "Also log to this file")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := probe.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	config := &probe.Config{
		BaseURL:    *baseURL,
		Requests:   *requests,
		Batches:    *batches,
		BatchSize:  *batchSize,
		TopK:       *topK,
		Sample:     *sample,
		Workers:    *workers,
		Seed:       *seed,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	if _, err := probe.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
