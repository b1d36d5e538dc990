// Package ranking orders evaluated bets from safest to riskiest.
//
// Ordering: SAFE before RISKY, then Key DESC. Equal keys keep their input
// order, so the output is deterministic for a given input slice.
package ranking

import (
	"sort"

	"github.com/okian/betsafe/internal/domain/model"
)

// Key is the within-status sort key: the safety score for margin results
// and the diff for range results.
func Key(b model.Bet) float64 {
	if b.Result.Variant == model.VariantRange {
		return b.Result.Diff
	}
	return b.Result.SafetyScore
}

// less returns true if a should appear before b.
func less(a, b model.Bet) bool {
	as, bs := a.Result.Safe(), b.Result.Safe()
	if as != bs {
		return as
	}
	return Key(a) > Key(b)
}

// Rank returns a sorted copy of bets. The input slice is left untouched.
func Rank(bets []model.Bet) []model.Bet {
	out := make([]model.Bet, len(bets))
	copy(out, bets)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// TopK returns at most k SAFE bets in rank order. RISKY bets are never used
// to pad the result.
func TopK(bets []model.Bet, k int) []model.Bet {
	if k <= 0 {
		return []model.Bet{}
	}
	safe := make([]model.Bet, 0, len(bets))
	for _, b := range bets {
		if b.Result.Safe() {
			safe = append(safe, b)
		}
	}
	ranked := Rank(safe)
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
