package table

import (
	"github.com/bobonovski/goalign/matrix"
)

// Counts holds the sufficient statistics of one chain. Every Retract
// must be matched by the Commit that produced the count; a retraction
// below zero panics with matrix.ErrNegativeCount.
type Counts struct {
	links     *Links
	lexAlpha  float64
	nullAlpha float64

	lex     *matrix.Uint32Matrix // [link, 0]: times the link is aligned
	lexSum  *matrix.Uint32Matrix // [row, 0]: targets aligned to the row
	jump    *matrix.Uint32Matrix // [bucket, 0]: transitions per jump bucket
	jumpSum uint32
	fert    *matrix.Uint32Matrix // [row, bucket]: source occurrences per fertility
}

// NewCounts allocates empty tables over links. lexAlpha and nullAlpha
// are the Dirichlet concentrations of the lexical and NULL word
// distributions.
func NewCounts(links *Links, lexAlpha, nullAlpha float64) *Counts {
	return &Counts{
		links:     links,
		lexAlpha:  lexAlpha,
		nullAlpha: nullAlpha,
		lex:       matrix.NewUint32Matrix(max(links.Len(), 1), 1),
		lexSum:    matrix.NewUint32Matrix(links.Rows(), 1),
		jump:      matrix.NewUint32Matrix(JumpBuckets, 1),
		fert:      matrix.NewUint32Matrix(links.Rows(), FertBuckets),
	}
}

func (c *Counts) CommitLex(link, row uint32) {
	c.lex.Incr(link, 0, 1)
	c.lexSum.Incr(row, 0, 1)
}

func (c *Counts) RetractLex(link, row uint32) {
	c.lex.Decr(link, 0, 1)
	c.lexSum.Decr(row, 0, 1)
}

func (c *Counts) CommitJump(bucket uint32) {
	c.jump.Incr(bucket, 0, 1)
	c.jumpSum += 1
}

func (c *Counts) RetractJump(bucket uint32) {
	c.jump.Decr(bucket, 0, 1)
	c.jumpSum -= 1
}

// AddOccurrence records a source occurrence of row with fertility phi.
func (c *Counts) AddOccurrence(row uint32, phi uint16) {
	c.fert.Incr(row, FertBucket(phi), 1)
}

// MoveFert moves one occurrence of row from fertility from to fertility to.
func (c *Counts) MoveFert(row uint32, from, to uint16) {
	fb, tb := FertBucket(from), FertBucket(to)
	if fb == tb {
		return
	}
	c.fert.Decr(row, fb, 1)
	c.fert.Incr(row, tb, 1)
}

// LexProb is the predictive probability of the target word of link
// given row: (count + alpha) / (total + alpha * |Vt|).
func (c *Counts) LexProb(link, row uint32) float64 {
	alpha := c.lexAlpha
	if row == NullRow {
		alpha = c.nullAlpha
	}
	return (float64(c.lex.Get(link, 0)) + alpha) /
		(float64(c.lexSum.Get(row, 0)) + alpha*float64(c.links.TargetSize()))
}

// JumpProb is the predictive probability of one transition in bucket.
func (c *Counts) JumpProb(bucket uint32) float64 {
	return (float64(c.jump.Get(bucket, 0)) + JumpAlpha) /
		(float64(c.jumpSum) + JumpAlpha*float64(JumpBuckets))
}

// JumpProb2 is the joint predictive probability of two transitions, the
// second drawn after the first has been added to the counts.
func (c *Counts) JumpProb2(first, second uint32) float64 {
	same := 0.0
	if first == second {
		same = 1.0
	}
	return c.JumpProb(first) *
		(float64(c.jump.Get(second, 0)) + same + JumpAlpha) /
		(float64(c.jumpSum) + 1 + JumpAlpha*float64(JumpBuckets))
}

// FertRatio is the change in the collapsed fertility likelihood of row
// when one of its occurrences moves from fertility phi to phi+1. The
// occurrence must currently be counted at phi.
func (c *Counts) FertRatio(row uint32, phi uint16) float64 {
	fb, tb := FertBucket(phi), FertBucket(phi+1)
	if fb == tb {
		return 1.0
	}
	cur := c.fert.Get(row, fb)
	if cur == 0 {
		panic(matrix.ErrNegativeCount)
	}
	return (float64(c.fert.Get(row, tb)) + FertAlpha) /
		(float64(cur-1) + FertAlpha)
}

func (c *Counts) Lex(link uint32) uint32 {
	return c.lex.Get(link, 0)
}

func (c *Counts) LexSum(row uint32) uint32 {
	return c.lexSum.Get(row, 0)
}

// LexTotal returns the number of aligned target tokens, NULL included.
func (c *Counts) LexTotal() uint64 {
	return c.lexSum.Sum()
}

func (c *Counts) Jump(bucket uint32) uint32 {
	return c.jump.Get(bucket, 0)
}

func (c *Counts) JumpTotal() uint32 {
	return c.jumpSum
}

func (c *Counts) Fert(row, bucket uint32) uint32 {
	return c.fert.Get(row, bucket)
}

// Equal reports whether both tables hold the same counts.
func (c *Counts) Equal(o *Counts) bool {
	return c.jumpSum == o.jumpSum &&
		c.lex.Equal(o.lex) &&
		c.lexSum.Equal(o.lexSum) &&
		c.jump.Equal(o.jump) &&
		c.fert.Equal(o.fert)
}
