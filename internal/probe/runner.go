// Package probe drives a running betsafe service with generated lines and
// checks every response against the domain rules.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/betsafe/pkg/logger"
)

const (
	directoryPermission = 0750
	reportPermission    = 0600
	workerChannelFactor = 2
	maxViolations       = 100
)

// Run executes a complete probe against config.BaseURL.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	log := logger.Get().Named("probe")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting betsafe probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.Requests),
		logger.Int("batches", config.Batches),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	if err := client.health(ctx); err != nil {
		return stats, err
	}

	preds, err := client.predictions(ctx, config.Sample)
	if err != nil {
		return stats, fmt.Errorf("fetch predictions: %w", err)
	}
	if len(preds) == 0 {
		return stats, ErrEmptyDataset
	}
	stats.Predictions = len(preds)
	log.Info(ctx, "fetched predictions", logger.Int("count", len(preds)))

	gen := newGenerator(config.Seed)
	v := &violations{}

	probeEvaluations(ctx, config, client, gen.lines(preds, config.Requests), stats, v)

	batches := make([][]Line, config.Batches)
	for i := range batches {
		batches[i] = gen.lines(preds, config.BatchSize)
	}
	probeBatches(ctx, config, client, batches, stats, v)

	stats.Violations = v.list()
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if config.OutputFile != "" {
		if err := saveReport(config.OutputFile, stats); err != nil {
			log.Warn(ctx, "failed to save report", logger.Error(err))
		} else {
			log.Info(ctx, "report saved", logger.String("filename", config.OutputFile))
		}
	}

	displayFinalStats(ctx, log, stats)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if len(stats.Violations) > 0 {
		return stats, fmt.Errorf("%w: %d", ErrViolations, len(stats.Violations))
	}
	return stats, nil
}

type violations struct {
	mu    sync.Mutex
	items []string
}

func (v *violations) add(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.items) < maxViolations {
		v.items = append(v.items, err.Error())
	}
}

func (v *violations) list() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.items...)
}

// fanOut runs fn for every index in [0, n) on the given number of goroutines.
func fanOut(ctx context.Context, workers, n int, fn func(i int)) {
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan int, workers*workerChannelFactor)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				fn(i)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()
}

func probeEvaluations(ctx context.Context, config *Config, client *HTTPClient, lines []Line, stats *Stats, v *violations) {
	log := logger.Get().Named("probe")
	var done, safe, failed int64

	fanOut(ctx, config.Workers, len(lines), func(i int) {
		l := lines[i]
		ev, err := client.evaluate(ctx, l)
		if err != nil {
			atomic.AddInt64(&failed, 1)
			if config.Verbose {
				log.Warn(ctx, "evaluate failed", logger.String("player", l.Player), logger.Error(err))
			}
			return
		}
		atomic.AddInt64(&done, 1)
		if ev.Result.safe() {
			atomic.AddInt64(&safe, 1)
		}
		if err := verifyEvaluation(l, ev); err != nil {
			v.add(err)
		}
	})

	stats.Evaluations = int(done)
	stats.EvaluationsSafe = int(safe)
	stats.EvaluationsFail = int(failed)
	log.Info(ctx, "evaluations completed",
		logger.Int("ok", stats.Evaluations),
		logger.Int("safe", stats.EvaluationsSafe),
		logger.Int("failed", stats.EvaluationsFail))
}

func probeBatches(ctx context.Context, config *Config, client *HTTPClient, batches [][]Line, stats *Stats, v *violations) {
	log := logger.Get().Named("probe")
	var done, failed int64

	fanOut(ctx, config.Workers, len(batches), func(i int) {
		lines := batches[i]
		ranked, err := client.rank(ctx, lines)
		if err == nil {
			var top []Bet
			if top, err = client.top(ctx, lines, config.TopK); err == nil {
				atomic.AddInt64(&done, 1)
				if err := verifyRanked(ranked, len(lines)); err != nil {
					v.add(err)
				}
				if err := verifyTop(top, ranked, config.TopK); err != nil {
					v.add(err)
				}
				return
			}
		}
		atomic.AddInt64(&failed, 1)
		if config.Verbose {
			log.Warn(ctx, "batch failed", logger.Int("batch", i), logger.Error(err))
		}
	})

	stats.Batches = int(done)
	stats.BatchesFail = int(failed)
	log.Info(ctx, "rank batches completed",
		logger.Int("ok", stats.Batches),
		logger.Int("failed", stats.BatchesFail))
}

// saveReport writes stats as indented JSON.
func saveReport(filename string, stats *Stats) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(filename, append(data, '\n'), reportPermission)
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var safeRate, requestsPerSecond float64
	if stats.Evaluations > 0 {
		safeRate = float64(stats.EvaluationsSafe) / float64(stats.Evaluations) * 100
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Evaluations+2*stats.Batches) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("predictions", stats.Predictions),
		logger.Int("evaluations", stats.Evaluations),
		logger.Int("evaluationsFailed", stats.EvaluationsFail),
		logger.Int("batches", stats.Batches),
		logger.Int("batchesFailed", stats.BatchesFail),
		logger.Int("violations", len(stats.Violations)),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("safeRate", safeRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
