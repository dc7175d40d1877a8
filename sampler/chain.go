package sampler

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	log "github.com/golang/glog"

	"github.com/bobonovski/goalign/corpus"
	"github.com/bobonovski/goalign/matrix"
	"github.com/bobonovski/goalign/model"
	"github.com/bobonovski/goalign/table"
	"github.com/bobonovski/goalign/util"
)

// MaxSourceLen is the longest source sentence an alignment variable
// can point into.
const MaxSourceLen = math.MaxUint16 - 1

// MaxTargetLen bounds the fertility a single source occurrence can
// reach within one pair.
const MaxTargetLen = math.MaxUint16

// Phase is the lifecycle state of a chain.
type Phase int

const (
	Initializing Phase = iota
	BurningIn
	Sampling
	Done
)

func (p Phase) String() string {
	switch p {
	case Initializing:
		return "initializing"
	case BurningIn:
		return "burning-in"
	case Sampling:
		return "sampling"
	case Done:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Params are the hyperparameters shared by all chains of a run.
type Params struct {
	NullPrior float64 // prior probability of a NULL alignment
	LexAlpha  float64 // Dirichlet concentration of lexical distributions
	NullAlpha float64 // Dirichlet concentration of the NULL word distribution
}

// Options configures one chain.
type Options struct {
	Params
	Schedule   []Stage
	Seed       uint64 // run seed, the chain derives its own from it
	Discretize bool   // collect alignment votes instead of lexical probabilities
}

// Result is what a finished chain hands to the aggregator.
type Result struct {
	// Votes[p][j*(len(Source)+1)+k] sums the posterior probability of
	// candidate k for target position j over the sampling sweeps,
	// in single precision to halve the per-token footprint.
	Votes [][]float32
	// Lex holds the lexical predictive probability of every link,
	// averaged over the sampling sweeps.
	Lex     *matrix.Float64Matrix
	Samples int
}

// Chain is one Markov chain. It exclusively owns its counts, state and
// random stream.
type Chain struct {
	id    int
	data  *corpus.Corpus
	links *table.Links
	opts  Options

	rng    *rand.Rand
	phase  Phase
	state  *State
	counts *table.Counts
	res    *Result
	dist   []float64
}

// NewChain creates chain id over a validated corpus.
func NewChain(id int, data *corpus.Corpus, links *table.Links, opts Options) *Chain {
	return &Chain{
		id:    id,
		data:  data,
		links: links,
		opts:  opts,
		rng:   newRand(opts.Seed, id),
		phase: Initializing,
	}
}

func (c *Chain) Phase() Phase {
	return c.phase
}

// Run initializes the chain, runs its schedule and returns the sampled
// statistics. Any bookkeeping failure aborts the chain with an error.
func (c *Chain) Run(ctx context.Context) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("chain %d: %w", c.id, rerr)
			} else {
				err = fmt.Errorf("chain %d: %v", c.id, r)
			}
			res = nil
		}
	}()

	c.init()
	for _, st := range c.opts.Schedule {
		strategy, err := model.Get(st.Variant)
		if err != nil {
			return nil, err
		}
		c.phase = BurningIn
		if st.Sample {
			c.phase = Sampling
		}
		log.V(1).Infof("chain %d: %s %d sweeps with %s model", c.id, c.phase, st.Sweeps, st.Variant)

		for k := 0; k < st.Sweeps; k += 1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			logMass, err := c.sweep(strategy, st.Sample)
			if err != nil {
				return nil, fmt.Errorf("chain %d: %w", c.id, err)
			}
			if k%10 == 0 {
				log.V(1).Infof("chain %d: sweep %5d, log mass %f", c.id, k, logMass)
			}
			if st.Sample {
				c.collect()
			}
		}
	}
	if c.res.Lex != nil && c.res.Samples > 0 {
		c.res.Lex.Scale(1 / float64(c.res.Samples))
	}
	c.phase = Done

	res = c.res
	c.res = nil
	c.state = nil
	c.counts = nil
	return res, nil
}

func (c *Chain) init() {
	c.state = newState(c.data, c.rng)
	c.counts = countState(c.data, c.links, c.state, c.opts.LexAlpha, c.opts.NullAlpha)

	longest := 0
	c.res = &Result{}
	if c.opts.Discretize {
		c.res.Votes = make([][]float32, len(c.data.Pairs))
	}
	for p, pair := range c.data.Pairs {
		longest = max(longest, len(pair.Source))
		if c.opts.Discretize {
			c.res.Votes[p] = make([]float32, len(pair.Target)*(len(pair.Source)+1))
		}
	}
	if !c.opts.Discretize {
		c.res.Lex = matrix.NewFloat64Matrix(max(c.links.Len(), 1), 1)
	}
	c.dist = make([]float64, longest+1)
}

// sweep resamples every alignment variable once, pairs in corpus order
// and targets left to right, and returns the summed log of the
// candidate masses.
func (c *Chain) sweep(strategy model.Strategy, sample bool) (float64, error) {
	logMass := 0.0
	mctx := model.Context{
		Counts:    c.counts,
		Links:     c.links,
		NullPrior: c.opts.NullPrior,
	}
	for p, pair := range c.data.Pairs {
		if len(pair.Target) == 0 {
			continue
		}
		n := len(pair.Source)
		mctx.Pair = p
		mctx.Source = pair.Source
		mctx.Target = pair.Target
		mctx.Align = c.state.Links[p]
		mctx.Fert = c.state.Fert[p]
		dist := c.dist[:n+1]

		for j := range pair.Target {
			c.retract(p, j)
			mctx.J = j
			total, err := strategy.Scores(&mctx, dist)
			if err != nil {
				return 0, fmt.Errorf("pair %d position %d: %w", p, j, err)
			}
			k := util.Sample(c.rng, dist, total)
			c.commit(p, j, uint16(k))
			logMass += math.Log(total)

			if sample && c.res.Votes != nil {
				votes := c.res.Votes[p][j*(n+1) : (j+1)*(n+1)]
				inv := 1 / total
				for x, q := range dist {
					votes[x] += float32(q * inv)
				}
			}
		}
	}
	return logMass, nil
}

// retract removes the contribution of variable (p, j): its lexical
// link, the jumps into and out of position j, and its fertility.
func (c *Chain) retract(p, j int) {
	pair := c.data.Pairs[p]
	al := c.state.Links[p]
	a := al[j]
	if a == 0 {
		c.counts.RetractLex(c.links.Null(pair.Target[j]), table.NullRow)
	} else {
		i := int(a) - 1
		row := table.Row(pair.Source[i])
		fert := c.state.Fert[p]
		if fert[i] == 0 {
			panic(matrix.ErrNegativeCount)
		}
		c.counts.RetractLex(c.links.Cell(p, i, j, len(pair.Target)), row)
		c.counts.RetractJump(table.JumpBucket(from(al, j), int(a)))
		c.counts.MoveFert(row, fert[i], fert[i]-1)
		fert[i] -= 1
	}
	if j+1 < len(al) && al[j+1] != 0 {
		c.counts.RetractJump(table.JumpBucket(origin(a), int(al[j+1])))
	}
}

// commit sets variable (p, j) to a and adds its contribution back.
func (c *Chain) commit(p, j int, a uint16) {
	pair := c.data.Pairs[p]
	al := c.state.Links[p]
	al[j] = a
	if a == 0 {
		c.counts.CommitLex(c.links.Null(pair.Target[j]), table.NullRow)
	} else {
		i := int(a) - 1
		row := table.Row(pair.Source[i])
		fert := c.state.Fert[p]
		c.counts.CommitLex(c.links.Cell(p, i, j, len(pair.Target)), row)
		c.counts.CommitJump(table.JumpBucket(from(al, j), int(a)))
		c.counts.MoveFert(row, fert[i], fert[i]+1)
		fert[i] += 1
	}
	if j+1 < len(al) && al[j+1] != 0 {
		c.counts.CommitJump(table.JumpBucket(origin(a), int(al[j+1])))
	}
}

// collect records the statistics of one sampling sweep.
func (c *Chain) collect() {
	c.res.Samples += 1
	if c.res.Lex == nil {
		return
	}
	c.links.Each(func(row, _, link uint32) {
		c.res.Lex.Add(link, 0, c.counts.LexProb(link, row))
	})
}
