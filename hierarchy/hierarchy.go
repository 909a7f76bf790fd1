// Package hierarchy builds a chain of cache levels from a config. Every level
// owns the level below it and the last cache owns the main memory.
package hierarchy

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/stratum/config"
	"github.com/sarchlab/stratum/mem/cache"
	"github.com/sarchlab/stratum/mem/cache/replacement"
	"github.com/sarchlab/stratum/mem/idealmemcontroller"
	"github.com/sarchlab/stratum/mem/mem"
)

// Hierarchy is a built chain of levels.
type Hierarchy struct {
	// Top is the level that receives the accesses of the simulator.
	Top mem.LowModule

	// Levels holds the caches from the top down.
	Levels []*cache.Comp

	Memory *idealmemcontroller.Comp
}

// Names returns the level names from the top down to the main memory.
func (h *Hierarchy) Names() []string {
	names := make([]string, 0, len(h.Levels)+1)
	for _, l := range h.Levels {
		names = append(names, l.Name())
	}

	return append(names, h.Memory.Name())
}

// Level returns the cache with the given name.
func (h *Hierarchy) Level(name string) (*cache.Comp, bool) {
	for _, l := range h.Levels {
		if l.Name() == name {
			return l, true
		}
	}

	return nil, false
}

// An Option changes how a hierarchy is built.
type Option func(b *builder)

// WithSeed sets the base seed of the random replacement policies. The level
// at index i is seeded with base + i unless it has its own seed. The config
// seed is used if this option is absent.
func WithSeed(base uint64) Option {
	return func(b *builder) {
		b.seed = base
		b.seedSet = true
	}
}

// WithLogger sets the logger that reports the construction.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *builder) {
		b.log = log
	}
}

type builder struct {
	seed    uint64
	seedSet bool
	log     logrus.FieldLogger
}

// Build validates the config and creates the levels from the bottom up.
func Build(cfg config.HierarchyConfig, opts ...Option) (*Hierarchy, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &builder{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(b)
	}

	if !b.seedSet {
		b.seed = cfg.Seed
	}

	memory := idealmemcontroller.MakeBuilder().
		WithLatency(cfg.Memory.Latency).
		Build(cfg.Memory.Name)

	h := &Hierarchy{
		Levels: make([]*cache.Comp, len(cfg.Levels)),
		Memory: memory,
	}

	var next mem.LowModule = memory
	for i := len(cfg.Levels) - 1; i >= 0; i-- {
		level, err := b.buildLevel(i, cfg.Levels[i], next)
		if err != nil {
			return nil, err
		}

		h.Levels[i] = level
		next = level
	}

	h.Top = next

	return h, nil
}

func (b *builder) buildLevel(
	index int,
	lc config.LevelConfig,
	next mem.LowModule,
) (*cache.Comp, error) {
	kind, err := lc.Kind()
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", lc.Name, err)
	}

	cacheBuilder := cache.MakeBuilder().
		WithNumSets(lc.Sets).
		WithWayAssociativity(lc.Ways).
		WithBlockSize(lc.BlockSize).
		WithHitLatency(lc.HitLatency).
		WithReplacementPolicy(kind).
		WithNext(next)

	if kind == replacement.KindRandom {
		seed := b.seed + uint64(index)
		if lc.Seed != nil {
			seed = *lc.Seed
		}

		cacheBuilder = cacheBuilder.WithSeed(seed)
	}

	level := cacheBuilder.Build(lc.Name)

	b.log.WithFields(logrus.Fields{
		"level":  lc.Name,
		"size":   level.TotalSize(),
		"policy": kind.String(),
		"next":   next.Name(),
	}).Debug("cache level built")

	return level, nil
}
