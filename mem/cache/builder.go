package cache

import (
	"fmt"

	"github.com/sarchlab/stratum/mem/cache/internal/tagging"
	"github.com/sarchlab/stratum/mem/cache/replacement"
	"github.com/sarchlab/stratum/mem/mem"
	"github.com/sarchlab/stratum/sim/id"
)

// Builder can build caches.
type Builder struct {
	numSets          int
	wayAssociativity int
	blockSize        int
	hitLatency       uint64
	replaceStrategy  replacement.Kind
	seed             uint64
	seeded           bool
	policy           replacement.Policy
	next             mem.LowModule
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		numSets:          64,
		wayAssociativity: 8,
		blockSize:        64,
		hitLatency:       1,
		replaceStrategy:  replacement.KindLRU,
	}
}

// WithNumSets sets the number of sets. It must be a power of two.
func (b Builder) WithNumSets(numSets int) Builder {
	b.numSets = numSets
	return b
}

// WithWayAssociativity sets the way associativity of the builder.
func (b Builder) WithWayAssociativity(wayAssociativity int) Builder {
	b.wayAssociativity = wayAssociativity
	return b
}

// WithBlockSize sets the number of bytes in a line. It must be a power of
// two.
func (b Builder) WithBlockSize(blockSize int) Builder {
	b.blockSize = blockSize
	return b
}

// WithLog2BlockSize sets the log2 of the cache line size of the builder.
func (b Builder) WithLog2BlockSize(log2BlockSize int) Builder {
	b.blockSize = 1 << log2BlockSize
	return b
}

// WithHitLatency sets the number of cycles this level adds to every access
// that reaches it.
func (b Builder) WithHitLatency(hitLatency uint64) Builder {
	b.hitLatency = hitLatency
	return b
}

// WithReplacementPolicy selects the kind of replacement policy to create.
func (b Builder) WithReplacementPolicy(kind replacement.Kind) Builder {
	b.replaceStrategy = kind
	return b
}

// WithSeed makes a Random replacement policy reproducible.
func (b Builder) WithSeed(seed uint64) Builder {
	b.seed = seed
	b.seeded = true

	return b
}

// WithPolicy uses an existing policy instead of creating one. The policy must
// not be shared with any other cache.
func (b Builder) WithPolicy(policy replacement.Policy) Builder {
	b.policy = policy
	return b
}

// WithNext sets the level below the cache. The cache takes ownership of it.
func (b Builder) WithNext(next mem.LowModule) Builder {
	b.next = next
	return b
}

// Build builds a cache. It panics if the configuration is invalid.
func (b Builder) Build(name string) *Comp {
	b.mustBeValid(name)

	comp := &Comp{
		name:       name,
		HitLatency: b.hitLatency,
		tags: tagging.NewTagArray(
			b.numSets, b.wayAssociativity, b.blockSize),
		policy: b.createPolicy(),
		next:   b.next,
		idGen:  id.NewIDGenerator(),
	}

	return comp
}

func (b Builder) createPolicy() replacement.Policy {
	if b.policy != nil {
		return b.policy
	}

	if b.replaceStrategy == replacement.KindRandom && !b.seeded {
		return replacement.NewRandom(b.numSets, b.wayAssociativity)
	}

	return replacement.New(
		b.replaceStrategy, b.numSets, b.wayAssociativity, b.seed)
}

func (b Builder) mustBeValid(name string) {
	if name == "" {
		panic("cache must have a name")
	}

	if !isPowerOfTwo(b.numSets) {
		panic(fmt.Sprintf("%s: number of sets must be a power of 2, got %d",
			name, b.numSets))
	}

	if !isPowerOfTwo(b.blockSize) {
		panic(fmt.Sprintf("%s: block size must be a power of 2, got %d",
			name, b.blockSize))
	}

	if b.wayAssociativity <= 0 {
		panic(fmt.Sprintf("%s: way associativity must be positive, got %d",
			name, b.wayAssociativity))
	}

	if b.next == nil {
		panic(fmt.Sprintf("%s: cache must have a next level", name))
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
