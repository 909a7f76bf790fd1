// Package replacement provides the policies that decide which way of a full
// set gets evicted.
package replacement

import (
	"fmt"
	"strings"
)

// A Policy decides which block should be evicted. The cache notifies the
// policy about every hit and every fill so that the policy can keep its own
// bookkeeping. A policy never changes the validity of a block.
type Policy interface {
	// OnHit notifies that the block at the set and way was hit.
	OnHit(setID, wayID int)

	// OnFill notifies that the block at the set and way was just populated.
	OnFill(setID, wayID int)

	// GetVictim returns the way to evict from a full set. The result is
	// always in [0, ways).
	GetVictim(setID int) int
}

// Kind names a replacement policy.
type Kind int

// A list of all supported replacement policies.
const (
	KindLRU Kind = iota
	KindFIFO
	KindRandom
)

// String returns the canonical spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindLRU:
		return "LRU"
	case KindFIFO:
		return "FIFO"
	case KindRandom:
		return "Random"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts a policy name, in any letter case, to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lru":
		return KindLRU, nil
	case "fifo":
		return KindFIFO, nil
	case "random":
		return KindRandom, nil
	default:
		return 0, fmt.Errorf("unknown replacement policy %q", s)
	}
}

// New creates a policy of the given kind. Random policies created by New are
// seeded with seed; use NewRandom for a non-deterministic source.
func New(kind Kind, numSets, numWays int, seed uint64) Policy {
	switch kind {
	case KindLRU:
		return NewLRU(numSets, numWays)
	case KindFIFO:
		return NewFIFO(numSets, numWays)
	case KindRandom:
		return NewRandomWithSeed(numSets, numWays, seed)
	default:
		panic("unknown replace strategy: " + kind.String())
	}
}

func mustHaveValidGeometry(numSets, numWays int) {
	if numSets <= 0 {
		panic(fmt.Sprintf("number of sets must be positive, got %d", numSets))
	}

	if numWays <= 0 {
		panic(fmt.Sprintf("number of ways must be positive, got %d", numWays))
	}
}
