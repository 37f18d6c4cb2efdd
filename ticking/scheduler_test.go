package ticking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cooldown/hooking"
)

var _ = Describe("TickScheduler", func() {
	var (
		mockCtrl  *gomock.Controller
		tickerA   *MockTicker
		tickerB   *MockTicker
		scheduler *TickScheduler
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tickerA = NewMockTicker(mockCtrl)
		tickerB = NewMockTicker(mockCtrl)
		scheduler = NewTickScheduler(2 * Hz)
		scheduler.RegisterTicker("A", tickerA)
		scheduler.RegisterTicker("B", tickerB)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should tick every ticker in order at each period", func() {
		gomock.InOrder(
			tickerA.EXPECT().Tick(VTimeInSec(0)).Return(true),
			tickerB.EXPECT().Tick(VTimeInSec(0)).Return(false),
			tickerA.EXPECT().Tick(VTimeInSec(0.5)).Return(true),
			tickerB.EXPECT().Tick(VTimeInSec(0.5)).Return(true),
			tickerA.EXPECT().Tick(VTimeInSec(1)).Return(false),
			tickerB.EXPECT().Tick(VTimeInSec(1)).Return(false),
		)

		scheduler.Run(3)

		Expect(scheduler.TickCount()).To(Equal(uint64(3)))
		Expect(scheduler.CurrentTime()).To(Equal(VTimeInSec(1)))
	})

	It("should run until a given time", func() {
		tickerA.EXPECT().Tick(gomock.Any()).Return(true).Times(3)
		tickerB.EXPECT().Tick(gomock.Any()).Return(true).Times(3)

		scheduler.RunUntil(1)

		Expect(scheduler.TickCount()).To(Equal(uint64(3)))
	})

	It("should stop when no ticker makes progress", func() {
		tickerA.EXPECT().Tick(gomock.Any()).Return(true).Times(2)
		tickerA.EXPECT().Tick(gomock.Any()).Return(false)
		tickerB.EXPECT().Tick(gomock.Any()).Return(false).Times(3)

		Expect(scheduler.RunUntilIdle(10)).To(Equal(3))
	})

	It("should stop at the tick limit", func() {
		tickerA.EXPECT().Tick(gomock.Any()).Return(true).Times(4)
		tickerB.EXPECT().Tick(gomock.Any()).Return(true).Times(4)

		Expect(scheduler.RunUntilIdle(4)).To(Equal(4))
	})

	It("should invoke tick hooks", func() {
		var positions []string
		var progress []any
		scheduler.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			positions = append(positions, ctx.Pos.Name)
			if ctx.Pos == HookPosAfterTick {
				progress = append(progress, ctx.Detail)
				Expect(ctx.Item).To(Equal(TickInfo{Count: 0, Now: 0}))
			}
		}))
		tickerA.EXPECT().Tick(VTimeInSec(0)).Return(true)
		tickerB.EXPECT().Tick(VTimeInSec(0)).Return(false)

		scheduler.Run(1)

		Expect(positions).To(Equal([]string{"BeforeTick", "AfterTick"}))
		Expect(progress).To(Equal([]any{true}))
	})

	It("should reject duplicated ticker names", func() {
		Expect(func() { scheduler.RegisterTicker("A", tickerA) }).To(Panic())
		Expect(scheduler.TickerNames()).To(Equal([]string{"A", "B"}))
	})

	It("should hold ticks while paused", func() {
		scheduler.Pause()
		scheduler.Pause()
		Expect(scheduler.IsPaused()).To(BeTrue())

		done := make(chan struct{})
		tickerA.EXPECT().Tick(gomock.Any()).Return(true)
		tickerB.EXPECT().Tick(gomock.Any()).Return(true)
		go func() {
			defer GinkgoRecover()
			scheduler.Run(1)
			close(done)
		}()

		Consistently(done).ShouldNot(BeClosed())

		scheduler.Continue()
		Eventually(done).Should(BeClosed())
		Expect(scheduler.IsPaused()).To(BeFalse())
	})

	It("should reject a non-positive frequency", func() {
		Expect(func() { NewTickScheduler(0) }).To(Panic())
	})
})
