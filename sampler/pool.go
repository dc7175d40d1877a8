package sampler

import (
	"context"
	"time"

	log "github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/bobonovski/goalign/corpus"
	"github.com/bobonovski/goalign/table"
)

// Pool runs independent chains concurrently. Chains share only the
// read-only corpus and link index.
type Pool struct {
	chains []*Chain
}

// NewPool creates n chains, chain i seeded from opts.Seed and i.
func NewPool(n int, data *corpus.Corpus, links *table.Links, opts Options) *Pool {
	p := &Pool{chains: make([]*Chain, n)}
	for i := range p.chains {
		p.chains[i] = NewChain(i, data, links, opts)
	}
	return p
}

func (p *Pool) Chains() []*Chain {
	return p.chains
}

// Run runs all chains and waits for every one of them. The first
// failing chain cancels the others and its error is returned alone.
// Results are ordered by chain index.
func (p *Pool) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(p.chains))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range p.chains {
		i, c := i, c
		g.Go(func() error {
			start := time.Now()
			res, err := c.Run(ctx)
			if err != nil {
				return err
			}
			log.V(1).Infof("chain %d done in %s", i, time.Since(start))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
