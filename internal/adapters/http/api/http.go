// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/betsafe/internal/adapters/repository"
	service "github.com/okian/betsafe/internal/app"
	"github.com/okian/betsafe/internal/domain/evaluator"
	"github.com/okian/betsafe/internal/domain/model"
)

// Default request bounds.
const (
	defaultMaxTopK        = 50
	defaultMaxPredictions = 100
	defaultMaxBodyBytes   = 1 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	EvaluateDependencies
	PlayerDependencies
	RankDependencies
	PredictionsDependencies
}

// LineRequest is one {player, line} pair in a ranking body.
type LineRequest = service.LineRequest

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	evaluateHandler    *EvaluateHandler
	playersHandler     *PlayersHandler
	rankHandler        *RankHandler
	predictionsHandler *PredictionsHandler
}

// Option configures the Server.
type Option func(*serverConfig)

type serverConfig struct {
	maxTopK        int
	maxPredictions int
	maxBodyBytes   int64
}

// WithMaxTopK caps POST /top?k.
func WithMaxTopK(n int) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxTopK = n
		}
	}
}

// WithMaxPredictionsLimit caps GET /predictions?limit.
func WithMaxPredictionsLimit(n int) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxPredictions = n
		}
	}
}

// WithMaxBodyBytes caps JSON request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{
		maxTopK:        defaultMaxTopK,
		maxPredictions: defaultMaxPredictions,
		maxBodyBytes:   defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		evaluateHandler:    NewEvaluateHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		rankHandler:        NewRankHandler(deps, cfg.maxTopK, cfg.maxBodyBytes),
		predictionsHandler: NewPredictionsHandler(deps, cfg.maxPredictions),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/evaluate", MetricsMiddleware(s.evaluateHandler.HandleEvaluate, "evaluate"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleGetPlayer, "players"))
	mux.HandleFunc("/rank", MetricsMiddleware(s.rankHandler.HandleRank, "rank"))
	mux.HandleFunc("/top", MetricsMiddleware(s.rankHandler.HandleTop, "top"))
	mux.HandleFunc("/predictions", MetricsMiddleware(s.predictionsHandler.HandleGetPredictions, "predictions"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type betsResponse struct {
	Bets []model.Bet `json:"bets"`
}

type predictionsResponse struct {
	Predictions []model.PredictionRecord `json:"predictions"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps errors from the service and domain layers to an
// HTTP status and error code.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, evaluator.ErrInvalidLine), errors.Is(err, evaluator.ErrMissingLine),
		errors.Is(err, repository.ErrInvalidLimit), errors.Is(err, service.ErrNoBets):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrTooManyBets):
		writeError(w, http.StatusBadRequest, "limit_exceeded", WrapKind(op, ErrLimitExceeded, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}
