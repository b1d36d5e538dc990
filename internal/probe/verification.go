package probe

import (
	"fmt"
	"math"

	"github.com/okian/betsafe/internal/domain/evaluator"
	"github.com/okian/betsafe/internal/domain/model"
	"github.com/okian/betsafe/internal/domain/ranking"
)

const tolerance = 1e-9

func (p Prediction) record() model.PredictionRecord {
	return model.PredictionRecord{
		Player:  p.Player,
		Team:    p.Team,
		Points:  p.Points,
		RealPts: p.RealPts,
		Error:   p.Error,
		Floor:   p.Floor,
		Ceiling: p.Ceiling,
	}
}

func (r Result) safe() bool { return r.Status == string(model.StatusSafe) }

func (b Bet) bet() model.Bet {
	return model.Bet{
		Player: b.Player,
		Team:   b.Team,
		Points: b.Points,
		Line:   b.Line,
		Result: model.Result{
			Variant:     model.Variant(b.Result.Variant),
			Diff:        b.Result.Diff,
			SafetyScore: b.Result.SafetyScore,
			Advice:      model.Advice(b.Result.Advice),
			Status:      model.Status(b.Result.Status),
		},
	}
}

// verifyResult recomputes the result for rec at line and compares it with got.
func verifyResult(rec model.PredictionRecord, line float64, got Result) error {
	want, err := evaluator.Evaluate(rec, line)
	if err != nil {
		return fmt.Errorf("%s @ %g: %w", rec.Player, line, err)
	}
	switch {
	case string(want.Variant) != got.Variant:
		return fmt.Errorf("%s @ %g: variant %s, want %s", rec.Player, line, got.Variant, want.Variant)
	case string(want.Status) != got.Status:
		return fmt.Errorf("%s @ %g: status %s, want %s", rec.Player, line, got.Status, want.Status)
	case string(want.Advice) != got.Advice:
		return fmt.Errorf("%s @ %g: advice %s, want %s", rec.Player, line, got.Advice, want.Advice)
	case math.Abs(want.Diff-got.Diff) > tolerance:
		return fmt.Errorf("%s @ %g: diff %g, want %g", rec.Player, line, got.Diff, want.Diff)
	case math.Abs(want.SafetyScore-got.SafetyScore) > tolerance:
		return fmt.Errorf("%s @ %g: safety %g, want %g", rec.Player, line, got.SafetyScore, want.SafetyScore)
	}
	return nil
}

// verifyEvaluation checks an /evaluate response against the line that was asked for.
func verifyEvaluation(req Line, ev Evaluation) error {
	if ev.EvaluationID == "" {
		return fmt.Errorf("%s @ %g: missing evaluation id", req.Player, req.Line)
	}
	if ev.Line != req.Line {
		return fmt.Errorf("%s @ %g: echoed line %g", req.Player, req.Line, ev.Line)
	}
	return verifyResult(ev.Record.record(), ev.Line, ev.Result)
}

// verifyRanked checks that SAFE bets come first and that each partition is
// ordered by ranking key, highest first.
func verifyRanked(bets []Bet, want int) error {
	if len(bets) != want {
		return fmt.Errorf("rank returned %d bets, want %d", len(bets), want)
	}
	for i := 1; i < len(bets); i++ {
		prev, cur := bets[i-1].bet(), bets[i].bet()
		if !prev.Result.Safe() && cur.Result.Safe() {
			return fmt.Errorf("rank position %d: SAFE bet after RISKY", i)
		}
		if prev.Result.Safe() == cur.Result.Safe() && ranking.Key(cur) > ranking.Key(prev)+tolerance {
			return fmt.Errorf("rank position %d: key %g above previous %g", i, ranking.Key(cur), ranking.Key(prev))
		}
	}
	return nil
}

// verifyTop checks that top holds at most k SAFE bets and matches the
// head of the full ranking for the same request.
func verifyTop(top, ranked []Bet, k int) error {
	if len(top) > k {
		return fmt.Errorf("top returned %d bets for k=%d", len(top), k)
	}
	safe := 0
	for _, b := range ranked {
		if b.Result.safe() {
			safe++
		}
	}
	if want := min(k, safe); len(top) != want {
		return fmt.Errorf("top returned %d bets, want %d", len(top), want)
	}
	for i, b := range top {
		if !b.Result.safe() {
			return fmt.Errorf("top position %d: %s bet returned", i, b.Result.Status)
		}
		if b.Player != ranked[i].Player || b.Line != ranked[i].Line {
			return fmt.Errorf("top position %d: %s @ %g, rank has %s @ %g", i, b.Player, b.Line, ranked[i].Player, ranked[i].Line)
		}
	}
	return nil
}
