package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Kind", func() {
	DescribeTable("parsing",
		func(input string, expected Kind) {
			kind, err := ParseKind(input)

			Expect(err).NotTo(HaveOccurred())
			Expect(kind).To(Equal(expected))
		},
		Entry("LRU", "LRU", KindLRU),
		Entry("lower case lru", "lru", KindLRU),
		Entry("FIFO", "FIFO", KindFIFO),
		Entry("Random", "Random", KindRandom),
		Entry("padded random", " random ", KindRandom),
	)

	It("should reject unknown names", func() {
		_, err := ParseKind("PLRU")

		Expect(err).To(MatchError(ContainSubstring("PLRU")))
	})

	It("should print the canonical names", func() {
		Expect(KindLRU.String()).To(Equal("LRU"))
		Expect(KindFIFO.String()).To(Equal("FIFO"))
		Expect(KindRandom.String()).To(Equal("Random"))
	})

	It("should create the policy of the kind", func() {
		Expect(New(KindLRU, 1, 2, 0)).To(BeAssignableToTypeOf(&LRU{}))
		Expect(New(KindFIFO, 1, 2, 0)).To(BeAssignableToTypeOf(&FIFO{}))
		Expect(New(KindRandom, 1, 2, 0)).To(BeAssignableToTypeOf(&Random{}))
		Expect(func() { New(Kind(9), 1, 2, 0) }).To(Panic())
	})
})
