package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/bobonovski/goalign/table"
)

var (
	ErrUnknownVariant = errors.New("model: unknown model variant")
	ErrZeroMass       = errors.New("model: no candidate has positive probability")
)

// Variant selects how rich the alignment model is.
type Variant int

const (
	Lexical   Variant = 1 // IBM model 1
	HMM       Variant = 2 // lexical + jump transitions
	Fertility Variant = 3 // lexical + jump transitions + fertility
)

func (v Variant) String() string {
	switch v {
	case Lexical:
		return "lexical"
	case HMM:
		return "hmm"
	case Fertility:
		return "fertility"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant maps the model number 1, 2 or 3 to its Variant.
func ParseVariant(n int) (Variant, error) {
	v := Variant(n)
	if _, ok := strategies[v]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownVariant, n)
	}
	return v, nil
}

// Context describes the alignment variable being resampled: target
// position J of sentence pair Pair. The contribution of the variable
// has already been retracted from Counts and Fert.
type Context struct {
	Counts    *table.Counts
	Links     *table.Links
	NullPrior float64

	Pair   int
	Source []uint32
	Target []uint32
	Align  []uint16 // 0 is NULL, i+1 is source position i
	Fert   []uint16 // fertility of each source position
	J      int
}

// from returns the jump origin for position J: 0 at sentence start,
// -1 after a NULL aligned token, else the 1-based source position.
func (c *Context) from() int {
	if c.J == 0 {
		return 0
	}
	if a := c.Align[c.J-1]; a != 0 {
		return int(a)
	}
	return -1
}

// next returns the alignment of the following target token, 0 if it
// is NULL or J is the last position.
func (c *Context) next() int {
	if c.J+1 < len(c.Target) {
		return int(c.Align[c.J+1])
	}
	return 0
}

// Strategy scores the candidate values {NULL, 1..len(Source)} of one
// alignment variable.
type Strategy interface {
	Variant() Variant
	// Scores writes the unnormalized probability of every candidate
	// into dist (len(Source)+1 entries, NULL first) and returns the
	// total mass.
	Scores(ctx *Context, dist []float64) (float64, error)
}

var strategies = make(map[Variant]Strategy)

// every strategy registers itself using this function
func Register(v Variant, s Strategy) {
	strategies[v] = s
}

func Get(v Variant) (Strategy, error) {
	s, ok := strategies[v]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	return s, nil
}

// lexical fills dist with the lexical part of every candidate score,
// weighting non-NULL candidates by w.
func lexical(ctx *Context, dist []float64, w float64) {
	f := ctx.Target[ctx.J]
	dist[0] = ctx.NullPrior * ctx.Counts.LexProb(ctx.Links.Null(f), table.NullRow)
	for i, s := range ctx.Source {
		link := ctx.Links.Cell(ctx.Pair, i, ctx.J, len(ctx.Target))
		dist[i+1] = w * ctx.Counts.LexProb(link, table.Row(s))
	}
}

func mass(dist []float64) (float64, error) {
	total := 0.0
	for _, p := range dist {
		total += p
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return 0, fmt.Errorf("%w: total %g", ErrZeroMass, total)
	}
	return total, nil
}
