package sampler

import (
	"math"

	"github.com/bobonovski/goalign/model"
)

const (
	// SweepScale and MinSweeps give the base number of sweeps of a
	// corpus with n sentence pairs: max(MinSweeps, round(SweepScale/sqrt(n))).
	SweepScale = 1000.0
	MinSweeps  = 4
)

// Stage is a run of sweeps with one model variant.
type Stage struct {
	Variant model.Variant
	Sweeps  int
	Sample  bool // whether sweeps contribute to the posterior
}

// Sweeps returns ceil(base * length) where base is derived from the
// corpus size unless given explicitly.
func Sweeps(pairs, base int, length float64) int {
	if base <= 0 {
		n := math.Max(float64(pairs), 1)
		base = max(MinSweeps, int(math.Round(SweepScale/math.Sqrt(n))))
	}
	return max(1, int(math.Ceil(float64(base)*length)))
}

// NewSchedule lays out n sweeps of variant v: the first half burns in,
// the second half samples. Richer variants are preceded by warm-up
// stages of the simpler ones, each a quarter of n long.
func NewSchedule(v model.Variant, n int) []Stage {
	var stages []Stage
	warm := max(1, n/4)
	if v >= model.HMM {
		stages = append(stages, Stage{Variant: model.Lexical, Sweeps: warm})
	}
	if v >= model.Fertility {
		stages = append(stages, Stage{Variant: model.HMM, Sweeps: warm})
	}
	burn := n / 2
	if burn > 0 {
		stages = append(stages, Stage{Variant: v, Sweeps: burn})
	}
	return append(stages, Stage{Variant: v, Sweeps: n - burn, Sample: true})
}
