package posterior

import (
	"github.com/bobonovski/goalign/corpus"
)

// Alignment holds one decision per target token: Alignment[p][j] is 0
// for NULL or the 1-based source position aligned to target j of pair p.
type Alignment [][]int

// Discretize sums the alignment votes of all chains and picks, for every
// target token, the source position with the most posterior mass. NULL
// wins only if its mass is strictly larger than that of every source
// position. Chains are summed in index order.
func Discretize(data *corpus.Corpus, votes [][][]float32) Alignment {
	out := make(Alignment, len(data.Pairs))
	var sum []float64
	for p, pair := range data.Pairs {
		n := len(pair.Source) + 1
		out[p] = make([]int, len(pair.Target))
		for j := range pair.Target {
			sum = sum[:0]
			for k := 0; k < n; k += 1 {
				sum = append(sum, 0)
			}
			for _, chain := range votes {
				for k, v := range chain[p][j*n : (j+1)*n] {
					sum[k] += float64(v)
				}
			}
			out[p][j] = decide(sum)
		}
	}
	return out
}

func decide(mass []float64) int {
	best := 0
	for k := 1; k < len(mass); k += 1 {
		if best == 0 || mass[k] > mass[best] {
			best = k
		}
	}
	if best == 0 || mass[0] > mass[best] {
		return 0
	}
	return best
}
