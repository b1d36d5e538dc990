package service

import (
	"context"
	"fmt"

	"github.com/okian/betsafe/internal/domain/evaluator"
	"github.com/okian/betsafe/internal/domain/model"
	"github.com/okian/betsafe/internal/domain/ranking"
	"github.com/okian/betsafe/pkg/logger"
	"github.com/okian/betsafe/pkg/metrics"
)

// Rank evaluates every request and orders the bets SAFE first, then by
// descending key. Players are matched by exact name, ignoring case. An
// unknown player or bad line fails the whole call.
func (s *Service) Rank(ctx context.Context, reqs []LineRequest) ([]model.Bet, error) {
	bets, err := s.bets(ctx, reqs)
	if err != nil {
		return nil, err
	}
	return ranking.Rank(bets), nil
}

// TopK returns at most k SAFE bets in ranked order. k <= 0 yields an empty list.
func (s *Service) TopK(ctx context.Context, reqs []LineRequest, k int) ([]model.Bet, error) {
	bets, err := s.bets(ctx, reqs)
	if err != nil {
		return nil, err
	}
	top := ranking.TopK(bets, k)
	metrics.RecordTopKReturned(len(top))
	s.logger.Debug(ctx, "top bets selected",
		logger.Int("candidates", len(bets)),
		logger.Int("k", k),
		logger.Int("returned", len(top)),
	)
	return top, nil
}

// Predictions returns the first n dataset records in dataset order.
func (s *Service) Predictions(ctx context.Context, n int) ([]model.PredictionRecord, error) {
	store, err := s.dataset()
	if err != nil {
		return nil, err
	}
	return store.Head(ctx, n)
}

func (s *Service) bets(ctx context.Context, reqs []LineRequest) ([]model.Bet, error) {
	store, err := s.dataset()
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, ErrNoBets
	}
	if len(reqs) > s.maxBets {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyBets, len(reqs), s.maxBets)
	}
	metrics.RecordRankingSize(len(reqs))

	bets := make([]model.Bet, 0, len(reqs))
	for i, req := range reqs {
		rec, err := store.Get(ctx, req.Player)
		if err != nil {
			metrics.RecordEvaluationError("not_found")
			return nil, fmt.Errorf("bet %d: %w", i, err)
		}
		bet, err := evaluator.Bet(rec, req.Line)
		if err != nil {
			metrics.RecordEvaluationError("invalid_line")
			return nil, fmt.Errorf("bet %d: %w", i, err)
		}
		s.count(bet.Result)
		bets = append(bets, bet)
	}
	return bets, nil
}
