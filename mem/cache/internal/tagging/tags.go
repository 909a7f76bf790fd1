// Package tagging keeps track of which block lives in which line of a cache.
package tagging

// A Block of a cache is the information that is associated with a cache line
type Block struct {
	Tag     uint64
	SetID   int
	WayID   int
	IsValid bool
	IsDirty bool
}

// A Set is a list of blocks where a certain piece memory can be stored at.
type Set struct {
	Blocks []Block
}

// A TagArray holds the sets of a cache and translates addresses to set
// indexes and tags.
type TagArray struct {
	NumSets   int
	NumWays   int
	BlockSize int
	Sets      []Set
}

// NewTagArray creates a tag array in which every block is invalid.
func NewTagArray(numSets, numWays, blockSize int) *TagArray {
	t := &TagArray{
		NumSets:   numSets,
		NumWays:   numWays,
		BlockSize: blockSize,
	}

	t.Reset()

	return t
}

// TotalSize returns the maximum number of bytes can be stored in the cache
func (t *TagArray) TotalSize() uint64 {
	return uint64(t.NumSets) * uint64(t.NumWays) * uint64(t.BlockSize)
}

// Decompose splits an address into the set it maps to and the tag that
// identifies its block within the set.
func (t *TagArray) Decompose(addr uint64) (setID int, tag uint64) {
	blockAddr := addr / uint64(t.BlockSize)
	setID = int(blockAddr % uint64(t.NumSets))
	tag = blockAddr / uint64(t.NumSets)

	return setID, tag
}

// Compose rebuilds the block-aligned address of a block from its set and tag.
// It is the inverse of Decompose.
func (t *TagArray) Compose(setID int, tag uint64) uint64 {
	return (tag*uint64(t.NumSets) + uint64(setID)) * uint64(t.BlockSize)
}

// Lookup finds the valid block of the set that holds the tag.
func (t *TagArray) Lookup(setID int, tag uint64) (Block, bool) {
	for _, block := range t.Sets[setID].Blocks {
		if block.IsValid && block.Tag == tag {
			return block, true
		}
	}

	return Block{}, false
}

// FirstInvalid returns the invalid block with the lowest way index of the
// set.
func (t *TagArray) FirstInvalid(setID int) (Block, bool) {
	for _, block := range t.Sets[setID].Blocks {
		if !block.IsValid {
			return block, true
		}
	}

	return Block{}, false
}

// GetBlock returns the block at a set and way.
func (t *TagArray) GetBlock(setID, wayID int) Block {
	return t.Sets[setID].Blocks[wayID]
}

// Update overwrites the block at the set and way recorded in the block.
func (t *TagArray) Update(block Block) {
	t.Sets[block.SetID].Blocks[block.WayID] = block
}

// Reset will mark all the blocks in the directory invalid
func (t *TagArray) Reset() {
	t.Sets = make([]Set, t.NumSets)
	for i := 0; i < t.NumSets; i++ {
		t.Sets[i].Blocks = make([]Block, t.NumWays)
		for j := 0; j < t.NumWays; j++ {
			t.Sets[i].Blocks[j] = Block{
				SetID: i,
				WayID: j,
			}
		}
	}
}
