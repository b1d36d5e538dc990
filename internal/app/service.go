// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/betsafe/internal/adapters/enrich"
	repository "github.com/okian/betsafe/internal/adapters/repository"
	"github.com/okian/betsafe/pkg/logger"
	"github.com/okian/betsafe/pkg/metrics"
)

// Default service configuration.
const (
	defaultEnrichTimeout = 2 * time.Second
	defaultMaxBets       = 500
)

// Enricher resolves display profiles for players.
type Enricher interface {
	Enabled() bool
	Lookup(ctx context.Context, name string) (enrich.Profile, error)
}

// Service implements the API dependencies for the betting advisor.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	enricher Enricher

	// Configuration
	datasetPath   string
	datasetFormat repository.Format
	enrichTimeout time.Duration
	maxBets       int

	// State
	started bool

	// Counters
	evaluations atomic.Int64
	safe        atomic.Int64
	risky       atomic.Int64
	enriched    atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore injects a ready dataset. Start then skips loading from disk.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDatasetPath sets the file Start loads the dataset from.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithDatasetFormat forces the dataset decoder.
func WithDatasetFormat(f repository.Format) Option {
	return func(s *Service) {
		s.datasetFormat = f
	}
}

// WithEnricher sets the profile source used for display fields.
func WithEnricher(e Enricher) Option {
	return func(s *Service) {
		if e != nil {
			s.enricher = e
		}
	}
}

// WithEnrichTimeout bounds the time an evaluation waits for display fields.
func WithEnrichTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.enrichTimeout = d
		}
	}
}

// WithMaxBets caps the number of bets a ranking request may carry.
func WithMaxBets(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBets = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		enrichTimeout: defaultEnrichTimeout,
		maxBets:       defaultMaxBets,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset unless one was injected with WithStore.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting betting advisor service...")

	if s.store == nil {
		if s.datasetPath == "" {
			return ErrNoDataset
		}
		table, err := repository.Load(ctx, s.datasetPath,
			repository.WithFormat(s.datasetFormat),
			repository.WithLogger(s.logger.Named("dataset")),
		)
		if err != nil {
			return err
		}
		s.store = table
	}

	s.started = true
	s.logger.Info(ctx, "betting advisor service started",
		logger.Int("records", s.store.Count(ctx)),
		logger.Any("enrichment", s.enrichmentEnabled()),
	)

	return nil
}

// Stop marks the service as stopped. The dataset stays in memory.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "betting advisor service stopped")
}

// dataset returns the store if the service is running.
func (s *Service) dataset() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

func (s *Service) enrichmentEnabled() bool {
	return s.enricher != nil && s.enricher.Enabled()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":           s.started,
		"evaluations":       s.evaluations.Load(),
		"safeEvaluations":   s.safe.Load(),
		"riskyEvaluations":  s.risky.Load(),
		"enrichedResponses": s.enriched.Load(),
		"enrichmentEnabled": s.enrichmentEnabled(),
		"maxBets":           s.maxBets,
	}

	if s.started {
		records := s.store.Count(context.Background())
		stats["datasetRecords"] = records
		metrics.UpdateDatasetRecords(records)
	}

	return stats
}
