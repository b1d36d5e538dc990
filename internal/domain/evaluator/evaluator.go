// Package evaluator turns a prediction and a sportsbook line into a bet
// recommendation. Every function here is pure.
package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/betsafe/internal/domain/model"
)

// Margin evaluates a prediction with a symmetric error band.
// A line exactly on the prediction yields UNDER and is always RISKY.
func Margin(points, errMargin, line float64) model.Result {
	diff := points - line
	safety := math.Abs(diff) - errMargin
	return model.Result{
		Variant:     model.VariantMargin,
		Diff:        diff,
		SafetyScore: safety,
		Advice:      adviceFor(diff),
		Status:      statusFor(safety),
	}
}

// Range evaluates a prediction with an explicit floor/ceiling band.
// Callers guarantee floor <= points <= ceiling.
func Range(points, floor, ceiling, line float64) model.Result {
	res := model.Result{Variant: model.VariantRange}
	switch {
	case line < floor:
		res.Advice = model.AdviceOver
		res.Status = model.StatusSafe
		res.Diff = points - line
		res.SafetyScore = floor - line
	case line > ceiling:
		res.Advice = model.AdviceUnder
		res.Status = model.StatusSafe
		res.Diff = line - points
		res.SafetyScore = line - ceiling
	default:
		res.Status = model.StatusRisky
		if line < points {
			res.Advice = model.AdviceOver
		} else {
			res.Advice = model.AdviceUnder
		}
		res.Diff = math.Abs(points - line)
		res.SafetyScore = -math.Min(line-floor, ceiling-line)
	}
	return res
}

// Evaluate dispatches on the record's variant. A non-finite line is a
// caller error and is reported as ErrInvalidLine.
func Evaluate(rec model.PredictionRecord, line float64) (model.Result, error) {
	if !finite(line) {
		return model.Result{}, fmt.Errorf("%w: %v", ErrInvalidLine, line)
	}
	if floor, ceiling, ok := rec.Bounds(); ok {
		return Range(rec.Points, floor, ceiling, line), nil
	}
	return Margin(rec.Points, rec.Error, line), nil
}

// Bet evaluates rec and tags the result with its source record.
func Bet(rec model.PredictionRecord, line float64) (model.Bet, error) {
	res, err := Evaluate(rec, line)
	if err != nil {
		return model.Bet{}, err
	}
	return model.Bet{
		Player: rec.Player,
		Team:   rec.Team,
		Points: rec.Points,
		Line:   line,
		Result: res,
	}, nil
}

// ParseLine validates user-supplied line text before evaluation.
func ParseLine(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingLine
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLine, s)
	}
	if !finite(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLine, s)
	}
	return v, nil
}

// adviceFor maps a signed diff to a side. Only a strictly positive diff is OVER.
func adviceFor(diff float64) model.Advice {
	if diff > 0 {
		return model.AdviceOver
	}
	return model.AdviceUnder
}

// statusFor requires the edge to strictly exceed the error band.
func statusFor(safety float64) model.Status {
	if safety > 0 {
		return model.StatusSafe
	}
	return model.StatusRisky
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
