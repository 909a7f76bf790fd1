package replacement

// FIFO evicts blocks in the order they were filled. Hits do not matter.
type FIFO struct {
	numWays    int
	nextVictim []int
}

// NewFIFO creates a FIFO policy for a cache with the given geometry.
func NewFIFO(numSets, numWays int) *FIFO {
	mustHaveValidGeometry(numSets, numWays)

	return &FIFO{
		numWays:    numWays,
		nextVictim: make([]int, numSets),
	}
}

// OnHit does nothing. FIFO ignores recency.
func (p *FIFO) OnHit(_, _ int) {}

// OnFill moves the pointer of the set to the next way.
func (p *FIFO) OnFill(setID, _ int) {
	p.nextVictim[setID] = (p.nextVictim[setID] + 1) % p.numWays
}

// GetVictim returns the way the pointer of the set is on. It does not move
// the pointer.
func (p *FIFO) GetVictim(setID int) int {
	return p.nextVictim[setID]
}
