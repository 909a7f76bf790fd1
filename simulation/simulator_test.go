package simulation

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gmeasure"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/stratum/config"
	"github.com/sarchlab/stratum/hierarchy"
	"github.com/sarchlab/stratum/mem/mem"
	"github.com/sarchlab/stratum/sim/hooking"
	"github.com/sarchlab/stratum/workload"
)

var _ = Describe("Simulator", func() {
	var (
		mockCtrl *gomock.Controller
		top      *MockLowModule
		s        *Simulator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		top = NewMockLowModule(mockCtrl)
		s = NewSimulator(top)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should dispatch ops by kind in trace order", func() {
		gomock.InOrder(
			top.EXPECT().Load(uint64(0x40)).
				Return(mem.AccessResult{HitLevel: "MEM", TotalCycles: 10}),
			top.EXPECT().Store(uint64(0x80)).
				Return(mem.AccessResult{HitLevel: "L1", TotalCycles: 1}),
			top.EXPECT().Load(uint64(0x40)).
				Return(mem.AccessResult{HitLevel: "L1", TotalCycles: 1}),
		)

		history := s.Run([]workload.Op{
			workload.Load(0x40),
			workload.Store(0x80),
			workload.Load(0x40),
		})

		Expect(history).To(Equal(History{
			{Index: 0, Kind: mem.AccessKindLoad, Address: 0x40,
				Result: mem.AccessResult{HitLevel: "MEM", TotalCycles: 10}},
			{Index: 1, Kind: mem.AccessKindStore, Address: 0x80,
				Result: mem.AccessResult{HitLevel: "L1", TotalCycles: 1}},
			{Index: 2, Kind: mem.AccessKindLoad, Address: 0x40,
				Result: mem.AccessResult{HitLevel: "L1", TotalCycles: 1}},
		}))
	})

	It("should return an empty history for an empty trace", func() {
		Expect(s.Run(nil)).To(BeEmpty())
	})

	It("should report every op as a task", func() {
		top.EXPECT().Load(gomock.Any()).
			Return(mem.AccessResult{HitLevel: "MEM", TotalCycles: 10})

		var starts []hooking.TaskStart
		var details []interface{}
		s.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			switch ctx.Pos {
			case hooking.HookPosTaskStart:
				starts = append(starts, ctx.Item.(hooking.TaskStart))
			case hooking.HookPosTaskEnd:
				Expect(ctx.Item).To(Equal(hooking.TaskEnd{ID: "access.1"}))
				details = append(details, ctx.Detail)
			}
		}))

		s.Run([]workload.Op{workload.Load(0x1000)})

		Expect(starts).To(Equal([]hooking.TaskStart{{
			ID:      "access.1",
			Kind:    TaskKindAccess,
			What:    "L",
			Where:   "Simulator",
			Address: 0x1000,
		}}))
		Expect(details).To(Equal([]interface{}{
			mem.AccessResult{HitLevel: "MEM", TotalCycles: 10},
		}))
	})
})

var _ = Describe("Simulator with a hierarchy", func() {
	build := func(cfg config.HierarchyConfig) *Simulator {
		h, err := hierarchy.Build(cfg, hierarchy.WithSeed(11))
		Expect(err).NotTo(HaveOccurred())

		return NewSimulator(h.Top)
	}

	It("should miss everywhere on a stream larger than every level", func() {
		cfg := config.HierarchyConfig{
			Levels: []config.LevelConfig{
				{Name: "L1", Sets: 2, Ways: 2, BlockSize: 64,
					HitLatency: 4, Policy: "LRU"},
				{Name: "L2", Sets: 4, Ways: 2, BlockSize: 64,
					HitLatency: 10, Policy: "LRU"},
				{Name: "L3", Sets: 8, Ways: 2, BlockSize: 64,
					HitLatency: 20, Policy: "LRU"},
			},
			Memory: config.MemoryConfig{Name: "MainMemory", Latency: 100},
		}

		// 32 blocks cycled three times, twice the capacity of L3.
		ops := []workload.Op{}
		for round := 0; round < 3; round++ {
			for block := uint64(0); block < 32; block++ {
				ops = append(ops, workload.Load(block*64))
			}
		}

		history := build(cfg).Run(ops)

		Expect(history).To(HaveLen(96))
		for _, r := range history {
			Expect(r.Result.HitLevel).To(Equal("MainMemory"))
			Expect(r.Result.TotalCycles).To(Equal(uint64(134)))
		}
	})

	It("should produce the same history for the same trace and seed", func() {
		cfg := config.Default()
		for i := range cfg.Levels {
			cfg.Levels[i].Policy = "Random"
			cfg.Levels[i].Sets = 4
			cfg.Levels[i].Ways = 2
		}

		ops, err := workload.NewGenerator(5).
			Generate(workload.PatternGaussian, 2000)
		Expect(err).NotTo(HaveOccurred())

		Expect(build(cfg).Run(ops)).To(Equal(build(cfg).Run(ops)))
	})

	It("should replay the worked example of a two-way set", func() {
		cfg := config.HierarchyConfig{
			Levels: []config.LevelConfig{
				{Name: "L1", Sets: 1, Ways: 2, BlockSize: 64,
					HitLatency: 4, Policy: "LRU"},
			},
			Memory: config.MemoryConfig{Name: "MainMemory", Latency: 100},
		}

		history := build(cfg).Run([]workload.Op{
			workload.Load(0x0000),
			workload.Load(0x0040),
			workload.Load(0x0000),
			workload.Load(0x0080),
			workload.Load(0x0040),
		})

		levels := []string{}
		for _, r := range history {
			levels = append(levels, r.Result.HitLevel)
		}

		Expect(levels).To(Equal([]string{
			"MainMemory", "MainMemory", "L1", "MainMemory", "MainMemory",
		}))
	})

	It("should replay traces fast enough", Label("measurement"), func() {
		experiment := gmeasure.NewExperiment("trace replay")
		AddReportEntry(experiment.Name, experiment)

		ops, err := workload.NewGenerator(3).
			Generate(workload.PatternRandom, 20000)
		Expect(err).NotTo(HaveOccurred())

		experiment.Sample(func(idx int) {
			s := build(config.Default())
			experiment.MeasureDuration("replay", func() {
				s.Run(ops)
			})
		}, gmeasure.SamplingConfig{N: 5, Duration: 10 * time.Second})

		stats := experiment.GetStats("replay")
		Expect(stats.DurationFor(gmeasure.StatMedian)).
			To(BeNumerically("<", 5*time.Second))
	})
})
