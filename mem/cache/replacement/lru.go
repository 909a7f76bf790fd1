package replacement

// LRU evicts the least recently used block. Every hit or fill stamps the
// block with the next value of a per-set counter; the victim is the block with
// the smallest stamp, with ties going to the lowest way.
type LRU struct {
	numWays    int
	lastAccess [][]uint64
	counters   []uint64
}

// NewLRU creates an LRU policy for a cache with the given geometry.
func NewLRU(numSets, numWays int) *LRU {
	mustHaveValidGeometry(numSets, numWays)

	p := &LRU{
		numWays:    numWays,
		lastAccess: make([][]uint64, numSets),
		counters:   make([]uint64, numSets),
	}

	for i := range p.lastAccess {
		p.lastAccess[i] = make([]uint64, numWays)
	}

	return p
}

// OnHit marks the block as the most recently used one of its set.
func (p *LRU) OnHit(setID, wayID int) {
	p.touch(setID, wayID)
}

// OnFill marks the block as the most recently used one of its set.
func (p *LRU) OnFill(setID, wayID int) {
	p.touch(setID, wayID)
}

func (p *LRU) touch(setID, wayID int) {
	p.counters[setID]++
	p.lastAccess[setID][wayID] = p.counters[setID]
}

// GetVictim returns the least recently used way of the set.
func (p *LRU) GetVictim(setID int) int {
	stamps := p.lastAccess[setID]

	victim := 0
	for wayID := 1; wayID < p.numWays; wayID++ {
		if stamps[wayID] < stamps[victim] {
			victim = wayID
		}
	}

	return victim
}
