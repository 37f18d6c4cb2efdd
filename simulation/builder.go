package simulation

import (
	"log"
	"runtime"

	"github.com/rs/xid"

	"github.com/sarchlab/cooldown/cooldown"
	"github.com/sarchlab/cooldown/datarecording"
	"github.com/sarchlab/cooldown/hooking"
	"github.com/sarchlab/cooldown/monitoring"
	"github.com/sarchlab/cooldown/ticking"
	"github.com/sarchlab/cooldown/tracing"
	"github.com/sarchlab/cooldown/world"
)

// Builder can be used to build a simulation.
type Builder struct {
	parallelism    int
	shards         int
	freq           ticking.Freq
	monitorOn      bool
	monitorPort    int
	recordOn       bool
	outputFileName string
	logger         *log.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		parallelism: runtime.GOMAXPROCS(0),
		shards:      64,
		freq:        60 * ticking.Hz,
		monitorOn:   true,
		recordOn:    true,
	}
}

// WithParallelism sets the number of workers of the resolver.
func (b Builder) WithParallelism(n int) Builder {
	b.parallelism = n
	return b
}

// WithShards sets the number of shards of the resolver's duration map.
func (b Builder) WithShards(n int) Builder {
	b.shards = n
	return b
}

// WithFreq sets the tick frequency.
func (b Builder) WithFreq(freq ticking.Freq) Builder {
	b.freq = freq
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithoutRecording disables the SQLite recording of resolved cooldowns.
func (b Builder) WithoutRecording() Builder {
	b.recordOn = false
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithLogger prints the resolver's stage and map lifecycle to logger.
func (b Builder) WithLogger(logger *log.Logger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.recordOn && b.outputFileName != "" {
		panic("output file name cannot be set when recording is disabled")
	}

	if b.freq <= 0 {
		panic("frequency must be positive")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		id:         xid.New().String(),
		world:      world.New(),
		scheduler:  ticking.NewTickScheduler(b.freq),
		stageTimes: tracing.NewStageTimeTracer(),
	}

	rb := cooldown.MakeBuilder().
		WithParallelism(b.parallelism).
		WithShards(b.shards).
		WithHook(s.stageTimes)

	if b.recordOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "cooldown_sim_" + s.id
		}

		s.dataRecorder = datarecording.New(outputPath)
		s.winners = tracing.NewWinnerTracer(s.scheduler, s.dataRecorder)
		rb = rb.WithHook(s.winners)
	}

	if b.logger != nil {
		rb = rb.WithHook(hooking.NewLogHook(b.logger,
			cooldown.HookPosMapAcquire,
			cooldown.HookPosBeforeStage,
			cooldown.HookPosAfterStage,
			cooldown.HookPosMapRelease,
		))
	}

	s.resolver = rb.Build()
	s.system = NewCooldownSystem(s.world, s.resolver)
	s.scheduler.RegisterTicker("cooldown", s.system)

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		s.monitor.RegisterController(s.scheduler)
		s.monitor.RegisterPopulation(s.world)
		s.monitorPort = s.monitor.StartServer()
	}

	return s
}
