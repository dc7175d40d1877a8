package align

import (
	"errors"
	"fmt"
	"math"

	"github.com/bobonovski/goalign/model"
)

var ErrBadConfig = errors.New("align: invalid configuration")

// Config holds everything a run needs besides the corpus.
type Config struct {
	NullPrior float64 // prior probability of a NULL alignment
	LexAlpha  float64 // Dirichlet concentration of lexical distributions
	NullAlpha float64 // Dirichlet concentration of the NULL word distribution

	Model    int     // 1 = lexical, 2 = +HMM, 3 = +HMM +fertility
	Samplers int     // number of independent chains
	Length   float64 // multiplier on the number of sweeps
	Sweeps   int     // base number of sweeps, 0 derives it from the corpus size
	Seed     uint64

	Reverse    bool // align target to source
	Discretize bool // produce alignments instead of a probability table
}

// DefaultConfig returns the settings used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		NullPrior:  0.2,
		LexAlpha:   1e-3,
		NullAlpha:  1e-3,
		Model:      3,
		Samplers:   2,
		Length:     1.0,
		Discretize: true,
	}
}

// Validate reports the first configuration error.
func (c Config) Validate() error {
	if _, err := model.ParseVariant(c.Model); err != nil {
		return fmt.Errorf("%w: %w", ErrBadConfig, err)
	}
	if c.Samplers <= 0 {
		return fmt.Errorf("%w: need at least one sampler, got %d", ErrBadConfig, c.Samplers)
	}
	if !(c.NullPrior > 0 && c.NullPrior < 1) {
		return fmt.Errorf("%w: null prior %g outside (0, 1)", ErrBadConfig, c.NullPrior)
	}
	if !positive(c.LexAlpha) {
		return fmt.Errorf("%w: lexical alpha %g must be positive", ErrBadConfig, c.LexAlpha)
	}
	if !positive(c.NullAlpha) {
		return fmt.Errorf("%w: null alpha %g must be positive", ErrBadConfig, c.NullAlpha)
	}
	if !positive(c.Length) {
		return fmt.Errorf("%w: length %g must be positive", ErrBadConfig, c.Length)
	}
	if c.Sweeps < 0 {
		return fmt.Errorf("%w: negative sweep count %d", ErrBadConfig, c.Sweeps)
	}
	return nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}
