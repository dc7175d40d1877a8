package sampler

import (
	"math/rand/v2"

	"github.com/bobonovski/goalign/corpus"
	"github.com/bobonovski/goalign/table"
)

// State holds the latent alignment of one chain. Links[p][j] is 0 when
// target token j of pair p is NULL aligned, else i+1 for source
// position i. Fert[p][i] counts the target tokens aligned to source
// position i.
type State struct {
	Links [][]uint16
	Fert  [][]uint16
}

// newState draws every alignment variable uniformly from NULL and the
// source positions of its pair.
func newState(data *corpus.Corpus, rng *rand.Rand) *State {
	s := &State{
		Links: make([][]uint16, len(data.Pairs)),
		Fert:  make([][]uint16, len(data.Pairs)),
	}
	for p, pair := range data.Pairs {
		n := len(pair.Source)
		s.Fert[p] = make([]uint16, n)
		if len(pair.Target) == 0 {
			continue
		}
		s.Links[p] = make([]uint16, len(pair.Target))
		if n == 0 {
			continue
		}
		for j := range pair.Target {
			a := uint16(rng.IntN(n + 1))
			s.Links[p][j] = a
			if a != 0 {
				s.Fert[p][a-1] += 1
			}
		}
	}
	return s
}

// from returns the jump origin of target position j of an alignment:
// 0 at sentence start, -1 after a NULL aligned token.
func from(links []uint16, j int) int {
	if j == 0 {
		return 0
	}
	if a := links[j-1]; a != 0 {
		return int(a)
	}
	return -1
}

// origin returns the jump origin created by aligning a token to a.
func origin(a uint16) int {
	if a == 0 {
		return -1
	}
	return int(a)
}

// countState builds the count tables implied by s.
func countState(data *corpus.Corpus, links *table.Links, s *State, lexAlpha, nullAlpha float64) *table.Counts {
	counts := table.NewCounts(links, lexAlpha, nullAlpha)
	for p, pair := range data.Pairs {
		al := s.Links[p]
		for j, t := range pair.Target {
			a := al[j]
			if a == 0 {
				counts.CommitLex(links.Null(t), table.NullRow)
				continue
			}
			i := int(a) - 1
			counts.CommitLex(links.Cell(p, i, j, len(pair.Target)), table.Row(pair.Source[i]))
			counts.CommitJump(table.JumpBucket(from(al, j), int(a)))
		}
		for i, w := range pair.Source {
			counts.AddOccurrence(table.Row(w), s.Fert[p][i])
		}
	}
	return counts
}
