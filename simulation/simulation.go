// Package simulation assembles a world, a resolver, and a tick scheduler into
// a runnable cooldown simulation.
package simulation

import (
	"github.com/sarchlab/cooldown/cooldown"
	"github.com/sarchlab/cooldown/datarecording"
	"github.com/sarchlab/cooldown/monitoring"
	"github.com/sarchlab/cooldown/ticking"
	"github.com/sarchlab/cooldown/tracing"
	"github.com/sarchlab/cooldown/world"
)

// A Simulation owns everything needed to run cooldowns over a world.
type Simulation struct {
	id string

	world     *world.World
	resolver  *cooldown.Resolver
	scheduler *ticking.TickScheduler
	system    *CooldownSystem

	dataRecorder datarecording.DataRecorder
	winners      *tracing.WinnerTracer
	stageTimes   *tracing.StageTimeTracer

	monitor     *monitoring.Monitor
	monitorPort int
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// World returns the actor population.
func (s *Simulation) World() *world.World {
	return s.world
}

// Resolver returns the cooldown resolver.
func (s *Simulation) Resolver() *cooldown.Resolver {
	return s.resolver
}

// Scheduler returns the tick scheduler.
func (s *Simulation) Scheduler() *ticking.TickScheduler {
	return s.scheduler
}

// Monitor returns the monitor, or nil if monitoring is disabled.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorPort returns the port the monitor listens on, or 0.
func (s *Simulation) MonitorPort() int {
	return s.monitorPort
}

// Recorder returns the data recorder, or nil if recording is disabled.
func (s *Simulation) Recorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// Winners returns the tracer recording resolved cooldowns, or nil if
// recording is disabled.
func (s *Simulation) Winners() *tracing.WinnerTracer {
	return s.winners
}

// StageTimes returns the tracer that measures resolver stages.
func (s *Simulation) StageTimes() *tracing.StageTimeTracer {
	return s.stageTimes
}

// Run runs n ticks.
func (s *Simulation) Run(n int) {
	if s.monitor == nil {
		s.scheduler.Run(n)
		return
	}

	bar := s.monitor.CreateProgressBar("ticks", uint64(n))
	defer s.monitor.CompleteProgressBar(bar)

	for i := 0; i < n; i++ {
		bar.IncrementInProgress(1)
		s.scheduler.Run(1)
		bar.MoveInProgressToFinished(1)
	}
}

// RunUntilIdle runs until no cooldown effect is left or maxTicks ticks ran.
// It returns the number of ticks run.
func (s *Simulation) RunUntilIdle(maxTicks int) int {
	return s.scheduler.RunUntilIdle(maxTicks)
}

// Terminate flushes the recording and stops the monitor.
func (s *Simulation) Terminate() {
	if s.dataRecorder != nil {
		err := s.dataRecorder.Close()
		if err != nil {
			panic(err)
		}

		s.dataRecorder = nil
	}

	if s.monitor != nil {
		s.monitor.StopServer()
	}
}
