// Package config describes the shape of a cache hierarchy and loads it from
// YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/stratum/mem/cache/replacement"
	"github.com/sarchlab/stratum/mem/idealmemcontroller"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid hierarchy config")

// TerminalName can be used as the next level of the last cache to refer to
// the main memory whatever its name is.
const TerminalName = "terminal"

// The environment variables that override the values of a config file.
const (
	EnvMemoryLatency = "STRATUM_MEMORY_LATENCY"
	EnvSeed          = "STRATUM_SEED"
)

// LevelConfig describes one cache level.
type LevelConfig struct {
	Name       string  `yaml:"name"`
	Sets       int     `yaml:"sets"`
	Ways       int     `yaml:"ways"`
	BlockSize  int     `yaml:"block_size"`
	HitLatency uint64  `yaml:"hit_latency"`
	Policy     string  `yaml:"policy"`
	Next       string  `yaml:"next,omitempty"`
	Seed       *uint64 `yaml:"seed,omitempty"`
}

// MemoryConfig describes the main memory at the bottom of the hierarchy.
type MemoryConfig struct {
	Name    string `yaml:"name"`
	Latency uint64 `yaml:"latency"`
}

// HierarchyConfig lists the cache levels from the top, the one the
// simulator talks to, down to the main memory.
type HierarchyConfig struct {
	Levels []LevelConfig `yaml:"levels"`
	Memory MemoryConfig  `yaml:"memory"`

	// Seed is the base seed of the levels that use random replacement.
	Seed uint64 `yaml:"seed,omitempty"`
}

// Default returns a three-level hierarchy backed by a 100-cycle memory.
func Default() HierarchyConfig {
	return HierarchyConfig{
		Levels: []LevelConfig{
			{Name: "L1", Sets: 64, Ways: 8, BlockSize: 64,
				HitLatency: 4, Policy: "LRU", Next: "L2"},
			{Name: "L2", Sets: 512, Ways: 8, BlockSize: 64,
				HitLatency: 10, Policy: "LRU", Next: "L3"},
			{Name: "L3", Sets: 8192, Ways: 16, BlockSize: 64,
				HitLatency: 20, Policy: "LRU",
				Next: idealmemcontroller.DefaultName},
		},
		Memory: MemoryConfig{
			Name:    idealmemcontroller.DefaultName,
			Latency: 100,
		},
	}
}

// Parse decodes and validates a YAML hierarchy description. Unknown fields
// are rejected.
func Parse(data []byte) (HierarchyConfig, error) {
	cfg := HierarchyConfig{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return HierarchyConfig{}, fmt.Errorf("decoding hierarchy config: %w", err)
	}

	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return HierarchyConfig{}, err
	}

	return cfg, nil
}

// Load reads and parses the hierarchy description stored at path.
func Load(path string) (HierarchyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return HierarchyConfig{}, fmt.Errorf("reading hierarchy config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return HierarchyConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Marshal encodes the config as YAML.
func (c HierarchyConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// WithDefaults returns a copy of the config where an empty memory name and
// empty policies are replaced by their defaults.
func (c HierarchyConfig) WithDefaults() HierarchyConfig {
	c.Levels = slices.Clone(c.Levels)
	c.fillDefaults()

	return c
}

func (c *HierarchyConfig) fillDefaults() {
	if c.Memory.Name == "" {
		c.Memory.Name = idealmemcontroller.DefaultName
	}

	for i := range c.Levels {
		if c.Levels[i].Policy == "" {
			c.Levels[i].Policy = replacement.KindLRU.String()
		}
	}
}

// LevelNames returns the names of all the levels from the top to the main
// memory.
func (c HierarchyConfig) LevelNames() []string {
	names := make([]string, 0, len(c.Levels)+1)
	for _, l := range c.Levels {
		names = append(names, l.Name)
	}

	return append(names, c.Memory.Name)
}

// Validate checks that the config describes a single chain of levels that
// ends at the main memory.
func (c HierarchyConfig) Validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("%w: at least one cache level is required",
			ErrInvalidConfig)
	}

	if c.Memory.Name == "" {
		return fmt.Errorf("%w: memory must have a name", ErrInvalidConfig)
	}

	seen := map[string]bool{c.Memory.Name: true}
	for i, l := range c.Levels {
		if err := l.validate(); err != nil {
			return err
		}

		if seen[l.Name] {
			return fmt.Errorf("%w: duplicated level name %q",
				ErrInvalidConfig, l.Name)
		}
		seen[l.Name] = true

		if err := c.validateNext(i); err != nil {
			return err
		}
	}

	return nil
}

func (c HierarchyConfig) validateNext(i int) error {
	l := c.Levels[i]
	if l.Next == "" {
		return nil
	}

	if i == len(c.Levels)-1 {
		if l.Next == c.Memory.Name || l.Next == TerminalName {
			return nil
		}

		return fmt.Errorf("%w: level %q is the last cache, its next level "+
			"must be %q, got %q", ErrInvalidConfig, l.Name, c.Memory.Name, l.Next)
	}

	want := c.Levels[i+1].Name
	if l.Next != want {
		return fmt.Errorf("%w: level %q must be followed by %q, got %q",
			ErrInvalidConfig, l.Name, want, l.Next)
	}

	return nil
}

func (l LevelConfig) validate() error {
	if l.Name == "" {
		return fmt.Errorf("%w: level must have a name", ErrInvalidConfig)
	}

	if !isPowerOfTwo(l.Sets) {
		return fmt.Errorf("%w: level %q: sets must be a power of 2, got %d",
			ErrInvalidConfig, l.Name, l.Sets)
	}

	if l.Ways <= 0 {
		return fmt.Errorf("%w: level %q: ways must be positive, got %d",
			ErrInvalidConfig, l.Name, l.Ways)
	}

	if !isPowerOfTwo(l.BlockSize) {
		return fmt.Errorf("%w: level %q: block_size must be a power of 2, "+
			"got %d", ErrInvalidConfig, l.Name, l.BlockSize)
	}

	if _, err := l.Kind(); err != nil {
		return fmt.Errorf("%w: level %q: %v", ErrInvalidConfig, l.Name, err)
	}

	return nil
}

// Kind returns the replacement policy of the level.
func (l LevelConfig) Kind() (replacement.Kind, error) {
	return replacement.ParseKind(l.Policy)
}

// ApplyEnv overrides the memory latency and the seed with the values found
// through lookup, which is usually os.LookupEnv.
func (c *HierarchyConfig) ApplyEnv(
	lookup func(key string) (string, bool),
) error {
	if v, ok := lookup(EnvMemoryLatency); ok {
		latency, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMemoryLatency, err)
		}

		c.Memory.Latency = latency
	}

	if v, ok := lookup(EnvSeed); ok {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}

		c.Seed = seed
	}

	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
