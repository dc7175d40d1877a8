package align

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/golang/glog"

	"github.com/bobonovski/goalign/corpus"
	"github.com/bobonovski/goalign/matrix"
	"github.com/bobonovski/goalign/model"
	"github.com/bobonovski/goalign/posterior"
	"github.com/bobonovski/goalign/sampler"
	"github.com/bobonovski/goalign/table"
)

var ErrSentenceTooLong = errors.New("align: sentence too long")

// Result is the outcome of a run: Alignments when discretizing, Table
// otherwise.
type Result struct {
	// Alignments[p][j] is 0 (NULL) or the 1-based position in the
	// aligned source side. With Reversed set, that side is the target
	// side of the input corpus.
	Alignments posterior.Alignment
	Reversed   bool
	Table      *posterior.ProbTable
}

// Align samples the alignment posterior of data with cfg.Samplers
// independent chains and aggregates their samples.
func Align(ctx context.Context, data *corpus.Corpus, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	variant, _ := model.ParseVariant(cfg.Model)

	if cfg.Reverse {
		data = data.Reverse()
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	for p, pair := range data.Pairs {
		if len(pair.Source) > sampler.MaxSourceLen {
			return nil, fmt.Errorf("pair %d has %d source tokens: %w", p, len(pair.Source), ErrSentenceTooLong)
		}
		if len(pair.Target) > sampler.MaxTargetLen {
			return nil, fmt.Errorf("pair %d has %d target tokens: %w", p, len(pair.Target), ErrSentenceTooLong)
		}
	}

	start := time.Now()
	links := table.NewLinks(data)
	log.Infof("indexed %d links in %s", links.Len(), time.Since(start))

	sweeps := sampler.Sweeps(len(data.Pairs), cfg.Sweeps, cfg.Length)
	opts := sampler.Options{
		Params: sampler.Params{
			NullPrior: cfg.NullPrior,
			LexAlpha:  cfg.LexAlpha,
			NullAlpha: cfg.NullAlpha,
		},
		Schedule:   sampler.NewSchedule(variant, sweeps),
		Seed:       cfg.Seed,
		Discretize: cfg.Discretize,
	}
	log.Infof("running %d samplers, %s model, %d sweeps", cfg.Samplers, variant, sweeps)

	start = time.Now()
	results, err := sampler.NewPool(cfg.Samplers, data, links, opts).Run(ctx)
	if err != nil {
		return nil, err
	}
	log.Infof("sampling done in %s", time.Since(start))

	res := &Result{Reversed: cfg.Reverse}
	if cfg.Discretize {
		votes := make([][][]float32, len(results))
		for i, r := range results {
			votes[i] = r.Votes
		}
		res.Alignments = posterior.Discretize(data, votes)
	} else {
		lex := make([]*matrix.Float64Matrix, len(results))
		for i, r := range results {
			lex[i] = r.Lex
		}
		res.Table = posterior.Average(data, links, lex)
	}
	return res, nil
}
