package sampler

import (
	"encoding/binary"
	"math/rand/v2"

	spooky "github.com/dgryski/go-spooky"
)

// ChainSeed derives the seed of chain idx from the run seed. It is a
// pure function, so chains can be seeded from any goroutine.
func ChainSeed(seed uint64, idx int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], seed)
	binary.LittleEndian.PutUint64(buf[8:], uint64(idx))
	return spooky.Hash64(buf[:])
}

func newRand(seed uint64, idx int) *rand.Rand {
	return rand.New(rand.NewPCG(ChainSeed(seed, idx), uint64(idx)))
}
