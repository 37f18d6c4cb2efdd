// Package monitoring turns a running cooldown simulation into a web server
// that reports its state and accepts pause and continue requests.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/cooldown/cooldown"
	"github.com/sarchlab/cooldown/monitoring/web"
	"github.com/sarchlab/cooldown/ticking"
)

// A Controller drives the simulation clock.
type Controller interface {
	CurrentTime() ticking.VTimeInSec
	TickCount() uint64
	Pause()
	Continue()
	IsPaused() bool
}

// A Population exposes the actors and abilities being simulated.
type Population interface {
	Actors() []cooldown.ActorID
	Abilities() []cooldown.AbilityType
	Records(actor cooldown.ActorID) ([]cooldown.AbilityRecord, error)
	Granted(ability cooldown.AbilityType) []*cooldown.AbilityRecord
	CooldownSources(ability cooldown.AbilityType) []cooldown.CooldownSource
}

// Monitor can turn a simulation into a server and allows external monitoring
// controlling of the simulation.
type Monitor struct {
	controller Controller
	population Population
	portNumber int

	server *http.Server

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterController registers the scheduler that runs the simulation.
func (m *Monitor) RegisterController(c Controller) {
	m.controller = c
}

// RegisterPopulation registers the world whose actors are reported.
func (m *Monitor) RegisterPopulation(p Population) {
	m.population = p
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar to be shown on the webpage.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

func (m *Monitor) newRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/pause", m.pause)
	r.HandleFunc("/api/continue", m.continueRun)
	r.HandleFunc("/api/now", m.now)
	r.HandleFunc("/api/abilities", m.listAbilities)
	r.HandleFunc("/api/actors", m.listActors)
	r.HandleFunc("/api/actor/{id}", m.actorDetails)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer starts the monitor as a web server and returns the port it
// listens on.
func (m *Monitor) StartServer() int {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	port := listener.Addr().(*net.TCPAddr).Port
	fmt.Fprintf(os.Stderr,
		"Monitoring simulation with http://localhost:%d\n", port)

	server := &http.Server{
		Handler:           m.newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	m.server = server

	go func() {
		err := server.Serve(listener)
		if !errors.Is(err, http.ErrServerClosed) {
			dieOnErr(err)
		}
	}()

	return port
}

// StopServer shuts the web server down.
func (m *Monitor) StopServer() {
	if m.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := m.server.Shutdown(ctx)
	dieOnErr(err)

	m.server = nil
}

func (m *Monitor) pause(w http.ResponseWriter, _ *http.Request) {
	m.controller.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueRun(w http.ResponseWriter, _ *http.Request) {
	m.controller.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

type nowRsp struct {
	Now    float64 `json:"now"`
	Tick   uint64  `json:"tick"`
	Paused bool    `json:"paused"`
}

func (m *Monitor) now(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, nowRsp{
		Now:    float64(m.controller.CurrentTime()),
		Tick:   m.controller.TickCount(),
		Paused: m.controller.IsPaused(),
	})
}

type abilityRsp struct {
	Ability string `json:"ability"`
	Granted int    `json:"granted"`
	Sources int    `json:"sources"`
}

func (m *Monitor) listAbilities(w http.ResponseWriter, _ *http.Request) {
	abilities := m.population.Abilities()

	rsp := make([]abilityRsp, 0, len(abilities))
	for _, a := range abilities {
		rsp = append(rsp, abilityRsp{
			Ability: string(a),
			Granted: len(m.population.Granted(a)),
			Sources: len(m.population.CooldownSources(a)),
		})
	}

	writeJSON(w, rsp)
}

func (m *Monitor) listActors(w http.ResponseWriter, _ *http.Request) {
	actors := m.population.Actors()

	ids := make([]uint64, 0, len(actors))
	for _, a := range actors {
		ids = append(ids, uint64(a))
	}

	writeJSON(w, ids)
}

type actorView struct {
	ID      cooldown.ActorID
	Records []cooldown.AbilityRecord
}

func (m *Monitor) actorDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	actor := cooldown.ActorID(id)

	records, err := m.population.Records(actor)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		_, err = w.Write([]byte("Actor not found"))
		dieOnErr(err)
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&actorView{ID: actor, Records: records})
	serializer.SetMaxDepth(3)
	err = serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	writeJSON(w, m.progressBars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
