package ticking

import (
	"fmt"
	"sync"

	"github.com/sarchlab/cooldown/hooking"
)

// A Ticker is an object that updates states with ticks. Tick returns true if
// the ticker made progress.
type Ticker interface {
	Tick(now VTimeInSec) bool
}

// TickInfo is the hook item of HookPosBeforeTick and HookPosAfterTick.
type TickInfo struct {
	Count uint64
	Now   VTimeInSec
}

func (i TickInfo) String() string {
	return fmt.Sprintf("tick=%d now=%.6f", i.Count, i.Now)
}

// HookPosBeforeTick fires before the tickers of a tick run.
var HookPosBeforeTick = &hooking.HookPos{Name: "BeforeTick"}

// HookPosAfterTick fires after all tickers of a tick returned. Detail is true
// if any ticker made progress.
var HookPosAfterTick = &hooking.HookPos{Name: "AfterTick"}

type namedTicker struct {
	name   string
	ticker Ticker
}

// TickScheduler advances a virtual clock at a fixed frequency and ticks every
// registered ticker once per cycle, serially, in registration order.
type TickScheduler struct {
	*hooking.HookableBase

	freq Freq

	timeLock  sync.RWMutex
	now       VTimeInSec
	tickCount uint64

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	tickers []namedTicker
}

// NewTickScheduler creates a scheduler ticking at freq. The first tick
// happens at time 0.
func NewTickScheduler(freq Freq) *TickScheduler {
	if freq <= 0 {
		panic("ticking: frequency must be positive")
	}

	return &TickScheduler{
		HookableBase: hooking.NewHookableBase(),
		freq:         freq,
	}
}

// RegisterTicker adds a ticker. Tickers must be registered before running.
func (s *TickScheduler) RegisterTicker(name string, t Ticker) {
	for _, nt := range s.tickers {
		if nt.name == name {
			panic("ticking: ticker " + name + " already registered")
		}
	}

	s.tickers = append(s.tickers, namedTicker{name: name, ticker: t})
}

// TickerNames returns the names of the registered tickers in order.
func (s *TickScheduler) TickerNames() []string {
	names := make([]string, 0, len(s.tickers))
	for _, nt := range s.tickers {
		names = append(names, nt.name)
	}

	return names
}

// Freq returns the tick frequency.
func (s *TickScheduler) Freq() Freq {
	return s.freq
}

// CurrentTime returns the time of the last tick started.
func (s *TickScheduler) CurrentTime() VTimeInSec {
	s.timeLock.RLock()
	defer s.timeLock.RUnlock()

	return s.now
}

// TickCount returns the number of ticks completed.
func (s *TickScheduler) TickCount() uint64 {
	s.timeLock.RLock()
	defer s.timeLock.RUnlock()

	return s.tickCount
}

// Run runs n ticks.
func (s *TickScheduler) Run(n int) {
	s.singleRunLock.Lock()
	defer s.singleRunLock.Unlock()

	for i := 0; i < n; i++ {
		s.tickOnce()
	}
}

// RunUntil runs ticks while the next tick time is not later than t.
func (s *TickScheduler) RunUntil(t VTimeInSec) {
	s.singleRunLock.Lock()
	defer s.singleRunLock.Unlock()

	for s.nextTickTime() <= t {
		s.tickOnce()
	}
}

// RunUntilIdle runs ticks until a tick where no ticker made progress, or until
// maxTicks ticks ran. It returns the number of ticks run.
func (s *TickScheduler) RunUntilIdle(maxTicks int) int {
	s.singleRunLock.Lock()
	defer s.singleRunLock.Unlock()

	for i := 0; i < maxTicks; i++ {
		if !s.tickOnce() {
			return i + 1
		}
	}

	return maxTicks
}

func (s *TickScheduler) nextTickTime() VTimeInSec {
	s.timeLock.RLock()
	defer s.timeLock.RUnlock()

	return VTimeInSec(float64(s.tickCount) / float64(s.freq))
}

func (s *TickScheduler) tickOnce() bool {
	s.pauseLock.Lock()
	defer s.pauseLock.Unlock()

	now := s.nextTickTime()

	s.timeLock.Lock()
	s.now = now
	count := s.tickCount
	s.timeLock.Unlock()

	info := TickInfo{Count: count, Now: now}
	s.InvokeHook(hooking.HookCtx{Domain: s, Pos: HookPosBeforeTick, Item: info})

	progress := false
	for _, nt := range s.tickers {
		if nt.ticker.Tick(now) {
			progress = true
		}
	}

	s.timeLock.Lock()
	s.tickCount++
	s.timeLock.Unlock()

	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosAfterTick,
		Item:   info,
		Detail: progress,
	})

	return progress
}

// Pause prevents the scheduler from starting more ticks. A tick in progress
// completes first.
func (s *TickScheduler) Pause() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if s.isPaused {
		return
	}

	s.pauseLock.Lock()
	s.isPaused = true
}

// Continue allows the scheduler to start ticks again.
func (s *TickScheduler) Continue() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if !s.isPaused {
		return
	}

	s.pauseLock.Unlock()
	s.isPaused = false
}

// IsPaused returns true if Pause was called without a matching Continue.
func (s *TickScheduler) IsPaused() bool {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	return s.isPaused
}
