package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/cooldown/cooldown"
	"github.com/sarchlab/cooldown/simulation"
	"github.com/sarchlab/cooldown/ticking"
)

// runOptions are the settings that do not come from the scenario file.
type runOptions struct {
	Ticks       int
	Workers     int
	Shards      int
	Record      bool
	Output      string
	Monitor     bool
	MonitorPort int
	OpenMonitor bool
	Stages      bool
	Verbose     bool
}

var (
	runFlags runOptions
	envFile  string
)

var runCmd = &cobra.Command{
	Use:   "run <scenario.toml>",
	Short: "Run a scenario and print the final cooldowns",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true

		cfg, err := loadEnvConfig(envFile)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		sc, err := LoadScenario(args[0])
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		opts := mergeOptions(sc, cfg, runFlags, cmd.Flags().Changed)

		err = runScenario(cmd.OutOrStdout(), sc, opts)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	f := runCmd.Flags()
	f.IntVar(&runFlags.Ticks, "ticks", 0, "number of ticks, overrides the scenario")
	f.IntVar(&runFlags.Workers, "workers", 0, "resolver workers, 0 uses GOMAXPROCS")
	f.IntVar(&runFlags.Shards, "shards", 0, "duration map shards, 0 uses the default")
	f.BoolVar(&runFlags.Record, "record", false, "record resolved cooldowns into SQLite")
	f.StringVar(&runFlags.Output, "output", "", "recording file name without extension")
	f.BoolVar(&runFlags.Monitor, "monitor", false, "serve the monitoring web page")
	f.IntVar(&runFlags.MonitorPort, "monitor-port", 0, "monitoring port, 0 picks one")
	f.BoolVar(&runFlags.OpenMonitor, "open-monitor", false, "open the monitor in a browser")
	f.BoolVar(&runFlags.Stages, "stages", false, "print resolver stage times")
	f.BoolVar(&runFlags.Verbose, "verbose", false, "log every resolution stage")
	f.StringVar(&envFile, "env-file", ".env", "dotenv file to load")

	rootCmd.AddCommand(runCmd)
}

// mergeOptions applies, from lowest to highest precedence, the scenario, the
// environment, and the flags that were set explicitly.
func mergeOptions(
	sc Scenario,
	cfg envConfig,
	flags runOptions,
	changed func(name string) bool,
) runOptions {
	opts := runOptions{
		Ticks:   sc.Ticks,
		Workers: sc.Workers,
		Shards:  sc.Shards,
	}

	if cfg.Workers > 0 {
		opts.Workers = cfg.Workers
	}
	if cfg.Shards > 0 {
		opts.Shards = cfg.Shards
	}
	if cfg.MonitorPort > 0 {
		opts.Monitor = true
		opts.MonitorPort = cfg.MonitorPort
	}
	opts.Record = cfg.Record

	if changed("ticks") {
		opts.Ticks = flags.Ticks
	}
	if changed("workers") {
		opts.Workers = flags.Workers
	}
	if changed("shards") {
		opts.Shards = flags.Shards
	}
	if changed("record") {
		opts.Record = flags.Record
	}
	if changed("monitor") {
		opts.Monitor = flags.Monitor
	}
	if changed("monitor-port") {
		opts.MonitorPort = flags.MonitorPort
	}

	opts.Output = flags.Output
	opts.OpenMonitor = flags.OpenMonitor
	opts.Stages = flags.Stages
	opts.Verbose = flags.Verbose

	if opts.OpenMonitor {
		opts.Monitor = true
	}
	if opts.Output != "" {
		opts.Record = true
	}

	return opts
}

func buildSimulation(sc Scenario, opts runOptions) *simulation.Simulation {
	b := simulation.MakeBuilder().
		WithFreq(ticking.Freq(sc.Freq))

	if opts.Workers > 0 {
		b = b.WithParallelism(opts.Workers)
	}
	if opts.Shards > 0 {
		b = b.WithShards(opts.Shards)
	}

	if !opts.Monitor {
		b = b.WithoutMonitoring()
	} else if opts.MonitorPort > 0 {
		b = b.WithMonitorPort(opts.MonitorPort)
	}

	if !opts.Record {
		b = b.WithoutRecording()
	} else if opts.Output != "" {
		b = b.WithOutputFileName(opts.Output)
	}

	if opts.Verbose {
		b = b.WithLogger(log.New(os.Stderr, "", log.Lmicroseconds))
	}

	return b.Build()
}

func populate(
	s *simulation.Simulation,
	sc Scenario,
) (map[string]cooldown.ActorID, error) {
	w := s.World()
	ids := make(map[string]cooldown.ActorID, len(sc.Actors))

	for _, a := range sc.Actors {
		id := w.SpawnActor()
		ids[a.Name] = id

		for _, ability := range a.Abilities {
			if _, err := w.Grant(id, cooldown.AbilityType(ability)); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range sc.Cooldowns {
		_, err := w.ApplyCooldownAt(ids[c.Actor],
			cooldown.AbilityType(c.Ability), c.Remaining, c.Nominal)
		if err != nil {
			return nil, err
		}
	}

	return ids, nil
}

func runScenario(out io.Writer, sc Scenario, opts runOptions) error {
	s := buildSimulation(sc, opts)
	defer s.Terminate()

	ids, err := populate(s, sc)
	if err != nil {
		return fmt.Errorf("populate %s: %w", sc.Name, err)
	}

	if opts.OpenMonitor && s.MonitorPort() > 0 {
		url := fmt.Sprintf("http://localhost:%d", s.MonitorPort())
		if err := browser.OpenURL(url); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot open %s: %v\n", url, err)
		}
	}

	s.Run(opts.Ticks)

	fmt.Fprintf(out, "scenario %s: %d ticks, %s elapsed\n",
		sc.Name, s.Scheduler().TickCount(), formatTime(s.Scheduler().CurrentTime()))

	if err := printRecords(out, s, sc, ids); err != nil {
		return err
	}

	if opts.Stages {
		return s.StageTimes().Report(out)
	}

	return nil
}

func formatTime(t ticking.VTimeInSec) string {
	return fmt.Sprintf("%gs", float64(t))
}

func printRecords(
	out io.Writer,
	s *simulation.Simulation,
	sc Scenario,
	ids map[string]cooldown.ActorID,
) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTOR\tABILITY\tREMAINING\tNOMINAL")

	for _, a := range sc.Actors {
		records, err := s.World().Records(ids[a.Name])
		if err != nil {
			return err
		}

		for _, rec := range records {
			fmt.Fprintf(tw, "%s\t%s\t%g\t%g\n", a.Name, rec.Ability,
				rec.Duration.RemainingTime, rec.Duration.NominalDuration)
		}
	}

	return tw.Flush()
}
