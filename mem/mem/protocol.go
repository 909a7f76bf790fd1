// Package mem defines the protocol shared by all the modules of a memory
// hierarchy.
package mem

// For capacity
const (
	_         = iota
	KB uint64 = 1 << (10 * iota)
	MB
	GB
)

// AccessKind tells if an access reads or writes a block.
type AccessKind int

// A list of all the access kinds.
const (
	AccessKindLoad AccessKind = iota
	AccessKindStore
)

// String returns the trace-file mnemonic of the access kind.
func (k AccessKind) String() string {
	switch k {
	case AccessKindLoad:
		return "L"
	case AccessKindStore:
		return "S"
	default:
		return "?"
	}
}

// AccessResult is what a module reports back after serving an access.
type AccessResult struct {
	// HitLevel is the name of the module that finally satisfied the access.
	HitLevel string

	// TotalCycles is the latency accumulated from the module that satisfied
	// the access up to the module that returned the result.
	TotalCycles uint64
}

// A LowModule is a module that can serve accesses coming from the level
// above it. Both caches and the main memory are LowModules.
type LowModule interface {
	Name() string
	Load(addr uint64) AccessResult
	Store(addr uint64) AccessResult
}
