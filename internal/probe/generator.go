package probe

import (
	"math"
	"math/rand/v2"
	"time"
)

// Lines are quoted in half points, the way sportsbooks post them.
const (
	lineStep   = 0.5
	lineSpread = 2.0 // extra points either side of the uncertainty band
)

type generator struct {
	rnd *rand.Rand
}

func newGenerator(seed uint64) *generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// line draws a line around p wide enough that both SAFE and RISKY
// outcomes come up.
func (g *generator) line(p Prediction) Line {
	lo, hi := p.Points-p.Error, p.Points+p.Error
	if p.Floor != nil && p.Ceiling != nil {
		lo, hi = *p.Floor, *p.Ceiling
	}
	lo -= lineSpread
	hi += lineSpread

	v := lo + g.rnd.Float64()*(hi-lo)
	v = math.Round(v/lineStep) * lineStep
	if v < 0 {
		v = 0
	}
	return Line{Player: p.Player, Line: v}
}

// lines draws n lines for randomly chosen predictions.
func (g *generator) lines(preds []Prediction, n int) []Line {
	out := make([]Line, n)
	for i := range out {
		out[i] = g.line(preds[g.rnd.IntN(len(preds))])
	}
	return out
}
