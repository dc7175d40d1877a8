package model

import "github.com/bobonovski/goalign/table"

func init() {
	Register(HMM, hmmModel{})
}

// hmmModel replaces the uniform position choice of model 1 by a jump
// distribution over the displacement from the previous alignment.
type hmmModel struct{}

func (hmmModel) Variant() Variant { return HMM }

func (hmmModel) Scores(ctx *Context, dist []float64) (float64, error) {
	n := len(ctx.Source)
	jumps(ctx, dist)
	return mass(dist[:n+1])
}

// jumps fills dist with the lexical score times the probability of
// the transition into J and, if the next token is aligned, the
// transition out of J.
func jumps(ctx *Context, dist []float64) {
	lexical(ctx, dist, 1-ctx.NullPrior)

	from, next := ctx.from(), ctx.next()
	if next > 0 {
		dist[0] *= ctx.Counts.JumpProb(table.NullJump)
	}
	for i := range ctx.Source {
		in := table.JumpBucket(from, i+1)
		if next > 0 {
			dist[i+1] *= ctx.Counts.JumpProb2(in, table.JumpBucket(i+1, next))
		} else {
			dist[i+1] *= ctx.Counts.JumpProb(in)
		}
	}
}
