package replacement

import (
	"math/rand/v2"
)

// Random evicts a uniformly chosen way. Each instance owns its source.
type Random struct {
	numWays int
	rng     *rand.Rand
}

// NewRandom creates a Random policy with a non-deterministic source.
func NewRandom(numSets, numWays int) *Random {
	return NewRandomWithSeed(numSets, numWays, rand.Uint64())
}

// NewRandomWithSeed creates a Random policy whose victims are reproducible
// for a given seed.
func NewRandomWithSeed(numSets, numWays int, seed uint64) *Random {
	mustHaveValidGeometry(numSets, numWays)

	return &Random{
		numWays: numWays,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// OnHit does nothing.
func (p *Random) OnHit(_, _ int) {}

// OnFill does nothing.
func (p *Random) OnFill(_, _ int) {}

// GetVictim draws a way in [0, ways).
func (p *Random) GetVictim(_ int) int {
	return p.rng.IntN(p.numWays)
}
