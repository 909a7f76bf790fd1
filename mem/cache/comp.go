// Package cache provides a write-back, write-allocate cache level that serves
// accesses from its own lines and fetches missing blocks from the level below
// it.
package cache

import (
	"fmt"

	"github.com/sarchlab/stratum/mem/cache/internal/tagging"
	"github.com/sarchlab/stratum/mem/cache/replacement"
	"github.com/sarchlab/stratum/mem/mem"
	"github.com/sarchlab/stratum/sim/hooking"
	"github.com/sarchlab/stratum/sim/id"
)

// Stats counts what happened at a single cache level.
type Stats struct {
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Evictions  uint64 `json:"evictions"`
	WriteBacks uint64 `json:"write_backs"`
}

// A Comp implements one level of a cache hierarchy. It exclusively owns the
// level below it.
type Comp struct {
	hooking.HookableBase

	name       string
	HitLatency uint64

	tags   *tagging.TagArray
	policy replacement.Policy
	next   mem.LowModule
	idGen  id.IDGenerator

	stats Stats
}

// Name returns the name of the cache level.
func (c *Comp) Name() string {
	return c.name
}

// NumSets returns the number of sets of the cache.
func (c *Comp) NumSets() int {
	return c.tags.NumSets
}

// NumWays returns the way associativity of the cache.
func (c *Comp) NumWays() int {
	return c.tags.NumWays
}

// BlockSize returns the number of bytes in a cache line.
func (c *Comp) BlockSize() int {
	return c.tags.BlockSize
}

// TotalSize returns the capacity of the cache in bytes.
func (c *Comp) TotalSize() uint64 {
	return c.tags.TotalSize()
}

// Next returns the level below this cache.
func (c *Comp) Next() mem.LowModule {
	return c.next
}

// Stats returns a snapshot of the counters of the level.
func (c *Comp) Stats() Stats {
	return c.stats
}

// ResetStats clears the counters without touching the cache content.
func (c *Comp) ResetStats() {
	c.stats = Stats{}
}

// Load reads the block that holds addr.
func (c *Comp) Load(addr uint64) mem.AccessResult {
	taskID := c.traceReqStart(mem.AccessKindLoad, addr)

	setID, tag := c.tags.Decompose(addr)

	block, hit := c.tags.Lookup(setID, tag)
	if hit {
		rsp := c.handleHit(taskID, block)
		c.traceReqEnd(taskID, rsp)

		return rsp
	}

	rsp := c.handleMiss(taskID, addr)
	c.fill(taskID, setID, tag)
	c.traceReqEnd(taskID, rsp)

	return rsp
}

// Store writes the block that holds addr. A hit only marks the line dirty.
// A miss fetches the block from below with a load before marking it dirty.
func (c *Comp) Store(addr uint64) mem.AccessResult {
	taskID := c.traceReqStart(mem.AccessKindStore, addr)

	setID, tag := c.tags.Decompose(addr)

	block, hit := c.tags.Lookup(setID, tag)
	if hit {
		block.IsDirty = true
		c.tags.Update(block)

		rsp := c.handleHit(taskID, block)
		c.traceReqEnd(taskID, rsp)

		return rsp
	}

	rsp := c.handleMiss(taskID, addr)

	block = c.fill(taskID, setID, tag)
	block.IsDirty = true
	c.tags.Update(block)

	c.traceReqEnd(taskID, rsp)

	return rsp
}

func (c *Comp) handleHit(taskID string, block tagging.Block) mem.AccessResult {
	c.stats.Hits++
	c.policy.OnHit(block.SetID, block.WayID)
	c.tagCacheHit(taskID)

	return mem.AccessResult{
		HitLevel:    c.name,
		TotalCycles: c.HitLatency,
	}
}

func (c *Comp) handleMiss(taskID string, addr uint64) mem.AccessResult {
	c.stats.Misses++
	c.tagCacheMiss(taskID)

	rsp := c.next.Load(addr)
	rsp.TotalCycles += c.HitLatency

	return rsp
}

// fill places the block with the tag into the set and returns the block it
// now occupies.
func (c *Comp) fill(taskID string, setID int, tag uint64) tagging.Block {
	block, found := c.tags.FirstInvalid(setID)
	if !found {
		block = c.tags.GetBlock(setID, c.findVictim(setID))
		c.evict(taskID, block)
	}

	block.IsValid = true
	block.IsDirty = false
	block.Tag = tag
	c.tags.Update(block)
	c.policy.OnFill(setID, block.WayID)

	return block
}

func (c *Comp) findVictim(setID int) int {
	wayID := c.policy.GetVictim(setID)
	if wayID < 0 || wayID >= c.tags.NumWays {
		panic(fmt.Sprintf("%s: replacement policy returned way %d, "+
			"the cache only has %d ways", c.name, wayID, c.tags.NumWays))
	}

	return wayID
}

func (c *Comp) evict(taskID string, victim tagging.Block) {
	if !victim.IsValid {
		return
	}

	c.stats.Evictions++
	evictAddr := c.tags.Compose(victim.SetID, victim.Tag)
	c.tagEviction(taskID, evictAddr)

	if !victim.IsDirty {
		return
	}

	c.stats.WriteBacks++
	c.tagWriteBack(taskID, evictAddr)
	c.next.Store(evictAddr)
}
