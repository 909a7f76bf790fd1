package hierarchy

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/stratum/config"
	"github.com/sarchlab/stratum/mem/mem"
)

var _ = Describe("Hierarchy", func() {
	It("should build the default hierarchy", func() {
		h, err := Build(config.Default())

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Names()).To(Equal([]string{"L1", "L2", "L3", "MainMemory"}))
		Expect(h.Top).To(BeIdenticalTo(h.Levels[0]))
		Expect(h.Levels[0].Next()).To(BeIdenticalTo(h.Levels[1]))
		Expect(h.Levels[1].Next()).To(BeIdenticalTo(h.Levels[2]))
		Expect(h.Levels[2].Next()).To(BeIdenticalTo(h.Memory))
		Expect(h.Levels[0].TotalSize()).To(Equal(32 * mem.KB))
		Expect(h.Levels[2].NumWays()).To(Equal(16))
		Expect(h.Memory.Latency).To(Equal(uint64(100)))
	})

	It("should find levels by name", func() {
		h, err := Build(config.Default())
		Expect(err).NotTo(HaveOccurred())

		l2, found := h.Level("L2")
		Expect(found).To(BeTrue())
		Expect(l2.NumSets()).To(Equal(512))

		_, found = h.Level("MainMemory")
		Expect(found).To(BeFalse())
	})

	It("should accumulate the latency of the whole chain on a cold miss",
		func() {
			h, err := Build(config.Default())
			Expect(err).NotTo(HaveOccurred())

			rsp := h.Top.Load(0x1000)

			Expect(rsp).To(Equal(mem.AccessResult{
				HitLevel: "MainMemory", TotalCycles: 134}))
		})

	It("should fill in the defaults of a config built in code", func() {
		cfg := config.HierarchyConfig{
			Levels: []config.LevelConfig{
				{Name: "L1", Sets: 2, Ways: 2, BlockSize: 64, HitLatency: 4},
			},
			Memory: config.MemoryConfig{Latency: 50},
		}

		h, err := Build(cfg)

		Expect(err).NotTo(HaveOccurred())
		Expect(h.Names()).To(Equal([]string{"L1", "MainMemory"}))
		Expect(h.Top.Load(0x0)).To(Equal(mem.AccessResult{
			HitLevel: "MainMemory", TotalCycles: 54}))
		Expect(cfg.Levels[0].Policy).To(BeEmpty())
		Expect(cfg.Memory.Name).To(BeEmpty())
	})

	It("should reject an invalid config", func() {
		cfg := config.Default()
		cfg.Levels[0].Ways = 0

		_, err := Build(cfg)

		Expect(err).To(MatchError(config.ErrInvalidConfig))
	})

	It("should make random levels reproducible with a seed", func() {
		cfg := config.HierarchyConfig{
			Levels: []config.LevelConfig{
				{Name: "L1", Sets: 1, Ways: 4, BlockSize: 64,
					HitLatency: 1, Policy: "Random"},
			},
			Memory: config.MemoryConfig{Name: "MainMemory", Latency: 10},
		}

		replay := func() []mem.AccessResult {
			h, err := Build(cfg, WithSeed(3))
			Expect(err).NotTo(HaveOccurred())

			results := []mem.AccessResult{}
			for i := uint64(0); i < 64; i++ {
				results = append(results, h.Top.Load((i*7)%16*64))
			}

			return results
		}

		Expect(replay()).To(Equal(replay()))
	})
})
