package idealmemcontroller

// DefaultName is the name given to the main memory when none is chosen.
const DefaultName = "MainMemory"

// Builder can build ideal memory controllers.
type Builder struct {
	latency uint64
}

// MakeBuilder returns a new Builder
func MakeBuilder() Builder {
	return Builder{
		latency: 100,
	}
}

// WithLatency sets the number of cycles the memory takes to serve an access.
func (b Builder) WithLatency(latency uint64) Builder {
	b.latency = latency
	return b
}

// Build builds a new Comp. An empty name falls back to DefaultName.
func (b Builder) Build(name string) *Comp {
	if name == "" {
		name = DefaultName
	}

	c := &Comp{
		name:    name,
		Latency: b.latency,
	}

	return c
}
