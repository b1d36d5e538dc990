package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/betsafe/internal/adapters/enrich"
	"github.com/okian/betsafe/internal/domain/evaluator"
	"github.com/okian/betsafe/internal/domain/model"
	"github.com/okian/betsafe/pkg/logger"
	"github.com/okian/betsafe/pkg/metrics"
)

// Evaluate finds the first player matching query and evaluates the line
// against their prediction. Display fields are filled in afterwards and never
// change the result.
func (s *Service) Evaluate(ctx context.Context, query string, line float64) (Evaluation, error) {
	store, err := s.dataset()
	if err != nil {
		return Evaluation{}, err
	}

	rec, err := store.Find(ctx, query)
	if err != nil {
		metrics.RecordEvaluationError("not_found")
		return Evaluation{}, err
	}

	res, err := evaluator.Evaluate(rec, line)
	if err != nil {
		metrics.RecordEvaluationError("invalid_line")
		return Evaluation{}, fmt.Errorf("evaluate %q: %w", rec.Player, err)
	}
	s.count(res)

	ev := Evaluation{
		EvaluationID: uuid.NewString(),
		Record:       rec,
		Line:         line,
		Result:       res,
		Display:      s.display(ctx, rec),
	}

	s.logger.Debug(ctx, "bet evaluated",
		logger.String("evaluation_id", ev.EvaluationID),
		logger.String("player", rec.Player),
		logger.Float64("line", line),
		logger.String("variant", string(res.Variant)),
		logger.String("status", string(res.Status)),
		logger.String("advice", string(res.Advice)),
		logger.Float64("safety_score", res.SafetyScore),
	)
	return ev, nil
}

// Player looks up a player by name fragment and decorates the record.
func (s *Service) Player(ctx context.Context, query string) (Player, error) {
	store, err := s.dataset()
	if err != nil {
		return Player{}, err
	}
	rec, err := store.Find(ctx, query)
	if err != nil {
		return Player{}, err
	}
	return Player{Record: rec, Display: s.display(ctx, rec)}, nil
}

func (s *Service) count(res model.Result) {
	s.evaluations.Add(1)
	if res.Safe() {
		s.safe.Add(1)
	} else {
		s.risky.Add(1)
	}
	metrics.RecordEvaluation(string(res.Variant), string(res.Status), string(res.Advice), res.SafetyScore)
}

// display resolves presentation fields under the enrichment timeout.
// Failures fall back to the dataset's own name and team.
func (s *Service) display(ctx context.Context, rec model.PredictionRecord) Display {
	d := Display{FullName: rec.Player, Team: rec.Team}
	if !s.enrichmentEnabled() {
		return d
	}

	ectx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	p, err := s.enricher.Lookup(ectx, rec.Player)
	if err != nil {
		if !errors.Is(err, enrich.ErrNoProfile) {
			metrics.RecordErrorByComponent("service", "enrich")
		}
		s.logger.Debug(ctx, "enrichment skipped",
			logger.String("player", rec.Player),
			logger.Error(err),
		)
		return d
	}

	s.enriched.Add(1)
	if name := p.FullName(); name != "" {
		d.FullName = name
	}
	if p.Team.FullName != "" {
		d.Team = p.Team.FullName
	}
	d.Position = p.Position
	d.HeadshotURL = p.HeadshotURL()
	d.Enriched = true
	return d
}
