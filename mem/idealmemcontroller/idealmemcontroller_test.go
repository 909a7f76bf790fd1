package idealmemcontroller

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/stratum/mem/mem"
)

var _ = Describe("Ideal Memory Controller", func() {
	var memController *Comp

	BeforeEach(func() {
		memController = MakeBuilder().
			WithLatency(150).
			Build("DRAM")
	})

	It("should satisfy a load at the fixed latency", func() {
		rsp := memController.Load(0x1000)

		Expect(rsp).To(Equal(mem.AccessResult{
			HitLevel:    "DRAM",
			TotalCycles: 150,
		}))
	})

	It("should satisfy a store at the fixed latency", func() {
		rsp := memController.Store(0xdeadbeef)

		Expect(rsp.HitLevel).To(Equal("DRAM"))
		Expect(rsp.TotalCycles).To(Equal(uint64(150)))
	})

	It("should answer the same regardless of the history", func() {
		first := memController.Load(0x40)
		memController.Store(0x40)
		memController.Load(0x80)

		Expect(memController.Load(0x40)).To(Equal(first))
	})

	It("should fall back to the default name and latency", func() {
		c := MakeBuilder().Build("")

		Expect(c.Name()).To(Equal(DefaultName))
		Expect(c.Load(0).TotalCycles).To(Equal(uint64(100)))
	})

	It("should be usable as a low module", func() {
		var low mem.LowModule = memController

		Expect(low.Name()).To(Equal("DRAM"))
	})
})
