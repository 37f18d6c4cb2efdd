package simulation

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cooldown/cooldown"
	"github.com/sarchlab/cooldown/datarecording"
	"github.com/sarchlab/cooldown/ticking"
	"github.com/sarchlab/cooldown/tracing"
)

var _ = Describe("Simulation", func() {
	var (
		simulation *Simulation
	)

	AfterEach(func() {
		simulation.Terminate()
	})

	Context("without recording", func() {
		BeforeEach(func() {
			simulation = MakeBuilder().
				WithoutMonitoring().
				WithoutRecording().
				WithFreq(1 * ticking.Hz).
				WithParallelism(4).
				Build()
		})

		It("should expose its parts", func() {
			Expect(simulation.ID()).NotTo(BeEmpty())
			Expect(simulation.World()).NotTo(BeNil())
			Expect(simulation.Resolver().Parallelism()).To(Equal(4))
			Expect(simulation.Scheduler().TickerNames()).
				To(Equal([]string{"cooldown"}))
			Expect(simulation.Monitor()).To(BeNil())
			Expect(simulation.Recorder()).To(BeNil())
			Expect(simulation.Winners()).To(BeNil())
		})

		It("should count cooldowns down every tick", func() {
			w := simulation.World()
			a := w.SpawnActor()
			_, err := w.Grant(a, "dash")
			Expect(err).NotTo(HaveOccurred())
			_, err = w.ApplyCooldown(a, "dash", 3)
			Expect(err).NotTo(HaveOccurred())
			_, err = w.ApplyCooldownAt(a, "dash", 2.5, 10)
			Expect(err).NotTo(HaveOccurred())

			simulation.Run(1)
			rec, err := w.Record(a, "dash")
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Duration).To(Equal(
				cooldown.DurationSnapshot{RemainingTime: 3, NominalDuration: 3}))

			simulation.Run(1)
			rec, _ = w.Record(a, "dash")
			Expect(rec.Duration).To(Equal(
				cooldown.DurationSnapshot{RemainingTime: 2, NominalDuration: 3}))

			simulation.Run(1)
			rec, _ = w.Record(a, "dash")
			Expect(rec.Duration).To(Equal(
				cooldown.DurationSnapshot{RemainingTime: 1, NominalDuration: 3}))

			simulation.Run(1)
			rec, _ = w.Record(a, "dash")
			Expect(rec.Duration.IsZero()).To(BeTrue())
			Expect(w.NumEffects()).To(BeZero())
		})

		It("should run until idle", func() {
			w := simulation.World()
			a := w.SpawnActor()
			_, err := w.Grant(a, "dash")
			Expect(err).NotTo(HaveOccurred())
			_, err = w.ApplyCooldown(a, "dash", 2)
			Expect(err).NotTo(HaveOccurred())

			ticks := simulation.RunUntilIdle(100)

			Expect(ticks).To(Equal(4))
			Expect(w.NumEffects()).To(BeZero())
		})

		It("should measure resolver stages", func() {
			w := simulation.World()
			_, err := w.Grant(w.SpawnActor(), "dash")
			Expect(err).NotTo(HaveOccurred())

			simulation.Run(2)

			stats := simulation.StageTimes().Stats()
			Expect(stats).To(HaveLen(3))
			for _, s := range stats {
				Expect(s.Count).To(Equal(uint64(2)))
			}
		})
	})

	Context("with recording", func() {
		var path string

		BeforeEach(func() {
			path = filepath.Join(GinkgoT().TempDir(), "sim")
			simulation = MakeBuilder().
				WithoutMonitoring().
				WithOutputFileName(path).
				WithFreq(2 * ticking.Hz).
				Build()
		})

		It("should record the winners of every tick", func() {
			w := simulation.World()
			a := w.SpawnActor()
			_, err := w.Grant(a, "blink")
			Expect(err).NotTo(HaveOccurred())
			_, err = w.ApplyCooldown(a, "blink", 1)
			Expect(err).NotTo(HaveOccurred())

			simulation.Run(3)
			Expect(simulation.Winners().NumRecorded()).To(Equal(uint64(3)))
			simulation.Terminate()

			reader, err := datarecording.NewReader(path + ".sqlite3")
			Expect(err).NotTo(HaveOccurred())
			defer reader.Close()

			winners, total, err := tracing.ReadWinners(context.Background(),
				reader, datarecording.QueryParams{OrderBy: "Tick"})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(3))
			Expect(winners).To(Equal([]tracing.WinnerEntry{
				{Tick: 0, Ability: "blink", Actor: uint64(a), Remaining: 1, Nominal: 1},
				{Tick: 1, Ability: "blink", Actor: uint64(a), Remaining: 0.5, Nominal: 1},
				{Tick: 2, Ability: "blink", Actor: uint64(a), Remaining: 0, Nominal: 0},
			}))
		})
	})

	Context("with a logger", func() {
		It("should log resolver stages", func() {
			buf := new(bytes.Buffer)
			simulation = MakeBuilder().
				WithoutMonitoring().
				WithoutRecording().
				WithLogger(log.New(buf, "", 0)).
				Build()

			w := simulation.World()
			_, err := w.Grant(w.SpawnActor(), "dash")
			Expect(err).NotTo(HaveOccurred())

			simulation.Run(1)

			Expect(buf.String()).To(ContainSubstring("MapAcquire"))
			Expect(buf.String()).To(ContainSubstring("BeforeStage item=collect"))
			Expect(buf.String()).To(ContainSubstring("AfterStage item=reduce"))
			Expect(buf.String()).To(ContainSubstring("MapRelease"))
		})
	})

	Context("with monitoring", func() {
		It("should serve the simulation", func() {
			simulation = MakeBuilder().
				WithoutRecording().
				Build()

			port := simulation.MonitorPort()
			Expect(port).To(BeNumerically(">", 0))

			rsp, err := http.Get(fmt.Sprintf("http://localhost:%d/api/now", port))
			Expect(err).NotTo(HaveOccurred())
			rsp.Body.Close()
			Expect(rsp.StatusCode).To(Equal(http.StatusOK))

			simulation.Run(2)
			Expect(simulation.Scheduler().TickCount()).To(Equal(uint64(2)))
		})
	})

	It("should reject inconsistent options", func() {
		Expect(func() {
			MakeBuilder().WithoutMonitoring().WithMonitorPort(8080).Build()
		}).To(Panic())
		Expect(func() {
			MakeBuilder().WithoutRecording().WithOutputFileName("x").Build()
		}).To(Panic())
		Expect(func() {
			MakeBuilder().WithFreq(0).Build()
		}).To(Panic())

		simulation = MakeBuilder().WithoutMonitoring().WithoutRecording().Build()
	})
})
