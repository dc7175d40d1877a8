package corpus

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownToken = errors.New("corpus: token id outside vocabulary")
	ErrNoVocab      = errors.New("corpus: missing vocabulary")
)

// Pair is one tokenized sentence pair. Either side may be empty.
type Pair struct {
	Source []uint32
	Target []uint32
}

// Corpus holds the tokenized sentence pairs and the vocabularies of
// both sides. It is never modified once loaded.
type Corpus struct {
	Pairs       []Pair
	SourceVocab *Vocab
	TargetVocab *Vocab
}

// Reverse returns a corpus with source and target swapped. Token slices
// are shared with the receiver.
func (c *Corpus) Reverse() *Corpus {
	pairs := make([]Pair, len(c.Pairs))
	for i, p := range c.Pairs {
		pairs[i] = Pair{Source: p.Target, Target: p.Source}
	}
	return &Corpus{
		Pairs:       pairs,
		SourceVocab: c.TargetVocab,
		TargetVocab: c.SourceVocab,
	}
}

// Validate checks that every token id is covered by its vocabulary.
func (c *Corpus) Validate() error {
	if c.SourceVocab == nil || c.TargetVocab == nil {
		return ErrNoVocab
	}
	ns, nt := c.SourceVocab.Len(), c.TargetVocab.Len()
	for p, pair := range c.Pairs {
		for i, s := range pair.Source {
			if s >= ns {
				return fmt.Errorf("pair %d source position %d id %d: %w", p, i, s, ErrUnknownToken)
			}
		}
		for j, t := range pair.Target {
			if t >= nt {
				return fmt.Errorf("pair %d target position %d id %d: %w", p, j, t, ErrUnknownToken)
			}
		}
	}
	return nil
}

// TargetTokens returns the number of target tokens, i.e. the number of
// alignment variables of the corpus.
func (c *Corpus) TargetTokens() int {
	n := 0
	for _, p := range c.Pairs {
		n += len(p.Target)
	}
	return n
}
