// Package workload reads, writes, and generates the memory access traces
// that drive a simulation.
package workload

import (
	"fmt"

	"github.com/sarchlab/stratum/mem/mem"
)

// An Op is a single memory access of a trace.
type Op struct {
	Kind    mem.AccessKind
	Address uint64
}

// String formats the op the way it appears in a trace file.
func (o Op) String() string {
	return fmt.Sprintf("%s       0x%X", o.Kind, o.Address)
}

// Load creates a load op.
func Load(addr uint64) Op {
	return Op{Kind: mem.AccessKindLoad, Address: addr}
}

// Store creates a store op.
func Store(addr uint64) Op {
	return Op{Kind: mem.AccessKindStore, Address: addr}
}
