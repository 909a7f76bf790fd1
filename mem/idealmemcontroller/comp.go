// Package idealmemcontroller provides the memory at the bottom of a cache
// hierarchy.
package idealmemcontroller

import (
	"github.com/sarchlab/stratum/mem/mem"
)

// A Comp is an ideal memory controller. It holds every block, so every access
// is satisfied in a fixed number of cycles and nothing is ever delegated.
type Comp struct {
	name    string
	Latency uint64
}

// Name returns the name of the memory.
func (c *Comp) Name() string {
	return c.name
}

// Load serves a block fetch.
func (c *Comp) Load(_ uint64) mem.AccessResult {
	return c.respond()
}

// Store accepts a written-back block.
func (c *Comp) Store(_ uint64) mem.AccessResult {
	return c.respond()
}

func (c *Comp) respond() mem.AccessResult {
	return mem.AccessResult{
		HitLevel:    c.name,
		TotalCycles: c.Latency,
	}
}
