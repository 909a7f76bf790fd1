package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type namedDomain struct {
	HookableBase
	name string
}

func (d *namedDomain) Name() string {
	return d.name
}

type recordingHook struct {
	ctxs []HookCtx
}

func (h *recordingHook) Func(ctx HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

var _ = Describe("HookableBase", func() {
	var (
		domain *namedDomain
		hook   *recordingHook
	)

	BeforeEach(func() {
		domain = &namedDomain{name: "L1"}
		hook = &recordingHook{}
	})

	It("should not invoke anything when no hook is attached", func() {
		Expect(func() {
			StartTask(domain, TaskStart{})
		}).NotTo(Panic())
	})

	It("should panic on a duplicated hook", func() {
		domain.AcceptHook(hook)

		Expect(func() { domain.AcceptHook(hook) }).To(Panic())
	})

	It("should deliver start, tag and end in order", func() {
		domain.AcceptHook(hook)

		StartTask(domain, TaskStart{ID: "1", Kind: "req_in", What: "load"})
		TagTask(domain, TaskTag{TaskID: "1", What: "cache_hit"})
		EndTask(domain, "1", 42)

		Expect(hook.ctxs).To(HaveLen(3))
		Expect(hook.ctxs[0].Pos).To(BeIdenticalTo(HookPosTaskStart))
		Expect(hook.ctxs[1].Pos).To(BeIdenticalTo(HookPosTaskTag))
		Expect(hook.ctxs[2].Pos).To(BeIdenticalTo(HookPosTaskEnd))
		Expect(hook.ctxs[2].Item).To(Equal(TaskEnd{ID: "1"}))
		Expect(hook.ctxs[2].Detail).To(Equal(42))
		Expect(DomainName(hook.ctxs[0])).To(Equal("L1"))
	})

	It("should panic when a task starts without an ID", func() {
		domain.AcceptHook(hook)

		Expect(func() { StartTask(domain, TaskStart{}) }).To(Panic())
	})
})

var _ = Describe("TagCountTracer", func() {
	var (
		domain *namedDomain
		tracer *TagCountTracer
	)

	BeforeEach(func() {
		domain = &namedDomain{name: "L2"}
		tracer = NewTagCountTracer(nil)
		domain.AcceptHook(tracer)
	})

	It("should count tags by name", func() {
		TagTask(domain, TaskTag{What: "cache_miss"})
		TagTask(domain, TaskTag{What: "eviction"})
		TagTask(domain, TaskTag{What: "cache_miss"})

		Expect(tracer.GetTagNames()).To(Equal([]string{"cache_miss", "eviction"}))
		Expect(tracer.GetTagCount("cache_miss")).To(Equal(uint64(2)))
		Expect(tracer.GetTagCount("eviction")).To(Equal(uint64(1)))
		Expect(tracer.GetTagCount("write_back")).To(BeZero())
	})

	It("should ignore non-tag positions", func() {
		StartTask(domain, TaskStart{ID: "1"})
		EndTask(domain, "1", nil)

		Expect(tracer.GetTagNames()).To(BeEmpty())
	})

	It("should apply the filter", func() {
		filtered := NewTagCountTracer(func(t TaskTag) bool {
			return t.What == "write_back"
		})
		domain.AcceptHook(filtered)

		TagTask(domain, TaskTag{What: "cache_hit"})
		TagTask(domain, TaskTag{What: "write_back"})

		Expect(filtered.GetTagNames()).To(Equal([]string{"write_back"}))
	})
})
