package model

func init() {
	Register(Lexical, lexicalModel{})
}

// lexicalModel is Bayesian IBM model 1: a target word is NULL generated
// with the NULL prior, otherwise it picks a source position uniformly.
type lexicalModel struct{}

func (lexicalModel) Variant() Variant { return Lexical }

func (lexicalModel) Scores(ctx *Context, dist []float64) (float64, error) {
	n := len(ctx.Source)
	w := 0.0
	if n > 0 {
		w = (1 - ctx.NullPrior) / float64(n)
	}
	lexical(ctx, dist, w)
	return mass(dist[:n+1])
}
