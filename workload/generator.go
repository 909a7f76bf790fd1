package workload

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Pattern names a synthetic access pattern.
type Pattern string

// A list of all the patterns a Generator can produce.
const (
	PatternSequential Pattern = "sequential"
	PatternRandom     Pattern = "random"
	PatternTemporal   Pattern = "temporal"
	PatternSpatial    Pattern = "spatial"
	PatternLargeLoop  Pattern = "largeloop"
	PatternGaussian   Pattern = "gaussian"
)

// Patterns returns all the supported patterns.
func Patterns() []Pattern {
	return []Pattern{
		PatternSequential,
		PatternRandom,
		PatternTemporal,
		PatternSpatial,
		PatternLargeLoop,
		PatternGaussian,
	}
}

// ParsePattern converts a pattern name into a Pattern.
func ParsePattern(s string) (Pattern, error) {
	name := Pattern(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range Patterns() {
		if p == name {
			return p, nil
		}
	}

	return "", fmt.Errorf("unknown pattern %q", s)
}

const (
	blockSize = 64

	sequentialBase     = 0x1000
	randomBlocks       = 0x100000
	temporalBase       = 0x1000
	temporalStride     = 0x1000
	temporalBlocks     = 5
	spatialBase        = 0x50000
	spatialWordSize    = 8
	spatialWordsPerBlk = 8
	largeLoopBase      = 0x20000
	largeLoopBlocks    = 1024
	gaussianMean       = 0x80000
	gaussianSigma      = 1000 * blockSize
)

// A Generator produces synthetic traces. The same seed always produces the
// same traces.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)),
	}
}

// Generate produces count ops that follow the pattern.
func (g *Generator) Generate(pattern Pattern, count int) ([]Op, error) {
	if count < 0 {
		return nil, fmt.Errorf("negative op count %d", count)
	}

	ops := make([]Op, 0, count)

	var next func(i int) Op
	switch pattern {
	case PatternSequential:
		next = g.sequential
	case PatternRandom:
		next = g.random
	case PatternTemporal:
		next = g.temporal
	case PatternSpatial:
		next = g.spatial
	case PatternLargeLoop:
		next = g.largeLoop
	case PatternGaussian:
		next = g.gaussian
	default:
		return nil, fmt.Errorf("unknown pattern %q", pattern)
	}

	for i := 0; i < count; i++ {
		ops = append(ops, next(i))
	}

	return ops, nil
}

func (g *Generator) kind(storeRatio float64) Op {
	if g.rng.Float64() < storeRatio {
		return Store(0)
	}

	return Load(0)
}

func (g *Generator) sequential(i int) Op {
	op := g.kind(0.2)
	op.Address = sequentialBase + uint64(i)*blockSize

	return op
}

func (g *Generator) random(_ int) Op {
	op := g.kind(0.3)
	op.Address = g.rng.Uint64N(randomBlocks) * blockSize

	return op
}

func (g *Generator) temporal(_ int) Op {
	block := g.rng.Uint64N(temporalBlocks)
	return Load(temporalBase + block*temporalStride)
}

func (g *Generator) spatial(i int) Op {
	n := uint64(i)
	offset := (n % spatialWordsPerBlk) * spatialWordSize
	block := (n / spatialWordsPerBlk) * blockSize

	return Load(spatialBase + block + offset)
}

func (g *Generator) largeLoop(i int) Op {
	block := uint64(i) % largeLoopBlocks
	return Load(largeLoopBase + block*blockSize)
}

func (g *Generator) gaussian(_ int) Op {
	op := g.kind(0.2)

	val := g.rng.NormFloat64()*gaussianSigma + gaussianMean
	if val < 0 {
		return op
	}

	op.Address = uint64(val) / blockSize * blockSize

	return op
}
