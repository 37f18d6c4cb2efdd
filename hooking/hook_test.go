package hooking

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("HookableBase", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *HookableBase
		pos      *HookPos
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewHookableBase()
		pos = &HookPos{Name: "Somewhere"}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should invoke hooks in registration order", func() {
		hook1 := NewMockHook(mockCtrl)
		hook2 := NewMockHook(mockCtrl)
		domain.AcceptHook(hook1)
		domain.AcceptHook(hook2)

		ctx := HookCtx{Domain: domain, Pos: pos, Item: 42}
		gomock.InOrder(
			hook1.EXPECT().Func(ctx),
			hook2.EXPECT().Func(ctx),
		)

		domain.InvokeHook(ctx)

		Expect(domain.NumHooks()).To(Equal(2))
		Expect(domain.Hooks()).To(HaveLen(2))
	})

	It("should panic on duplicated hooks", func() {
		hook := NewMockHook(mockCtrl)
		domain.AcceptHook(hook)

		Expect(func() { domain.AcceptHook(hook) }).To(Panic())
	})

	It("should accept several function hooks", func() {
		count := 0
		domain.AcceptHook(HookFunc(func(HookCtx) { count++ }))
		domain.AcceptHook(HookFunc(func(HookCtx) { count += 10 }))

		domain.InvokeHook(HookCtx{Domain: domain, Pos: pos})

		Expect(count).To(Equal(11))
	})
})

var _ = Describe("LogHook", func() {
	var (
		buf    *bytes.Buffer
		logger *log.Logger
		before *HookPos
		after  *HookPos
	)

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		logger = log.New(buf, "", 0)
		before = &HookPos{Name: "Before"}
		after = &HookPos{Name: "After"}
	})

	It("should print position, item and detail", func() {
		h := NewLogHook(logger)

		h.Func(HookCtx{Pos: before, Item: "collect", Detail: 3})

		Expect(buf.String()).To(Equal("Before item=collect detail=3\n"))
	})

	It("should skip positions outside the filter", func() {
		h := NewLogHook(logger, after)

		h.Func(HookCtx{Pos: before, Item: "collect"})
		h.Func(HookCtx{Pos: after, Item: "reduce"})

		Expect(buf.String()).To(Equal("After item=reduce\n"))
	})
})
