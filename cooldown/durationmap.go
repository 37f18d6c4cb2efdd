package cooldown

import (
	"sync"
	"sync/atomic"
)

type mapPhase int32

const (
	phaseScatter mapPhase = iota
	phaseGather
	phaseReleased
)

var phaseNames = [...]string{"scatter", "gather", "released"}

func (p mapPhase) String() string {
	return phaseNames[p]
}

// durationShard holds the buckets of the actors that hash into it. The lock is
// only taken during the scatter phase.
type durationShard struct {
	sync.Mutex
	buckets map[ActorID][]DurationSnapshot
}

// durationMap is the per-resolution multi-map from actor to the snapshots
// contributed this tick. It moves through scatter (insert only), gather (read
// only), and released, in that order.
type durationMap struct {
	phase  atomic.Int32
	shards []durationShard
	mask   uint64
}

func newDurationMap(capacity, shardCount int) *durationMap {
	shardCount = nextPowerOfTwo(shardCount)

	perShard := capacity / shardCount
	if capacity%shardCount != 0 {
		perShard++
	}

	m := &durationMap{
		shards: make([]durationShard, shardCount),
		mask:   uint64(shardCount - 1),
	}

	for i := range m.shards {
		m.shards[i].buckets = make(map[ActorID][]DurationSnapshot, perShard)
	}

	return m
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

func (m *durationMap) shardFor(actor ActorID) *durationShard {
	h := uint64(actor) * 0x9e3779b97f4a7c15
	return &m.shards[(h>>32)&m.mask]
}

func (m *durationMap) mustBeIn(want mapPhase, op string) {
	got := mapPhase(m.phase.Load())
	if got != want {
		panic("cooldown: " + op + " on duration map in " + got.String() +
			" phase, want " + want.String())
	}
}

func (m *durationMap) transition(from, to mapPhase, op string) {
	if !m.phase.CompareAndSwap(int32(from), int32(to)) {
		m.mustBeIn(from, op)
	}
}

// scatter returns the insert-only view used by the Collector and the Seeder.
func (m *durationMap) scatter() scatterView {
	m.mustBeIn(phaseScatter, "scatter")
	return scatterView{m: m}
}

// seal ends the scatter phase. All inserts must have been joined before seal
// is called.
func (m *durationMap) seal() gatherView {
	m.transition(phaseScatter, phaseGather, "seal")
	return gatherView{m: m}
}

// release drops every bucket. It must be called exactly once, after the last
// reader has finished. Releasing from the scatter phase is allowed so that a
// failed scatter stage still frees the map.
func (m *durationMap) release() {
	prev := mapPhase(m.phase.Swap(int32(phaseReleased)))
	if prev == phaseReleased {
		panic("cooldown: duration map released twice")
	}

	for i := range m.shards {
		m.shards[i].buckets = nil
	}
}

// numEntries counts the snapshots held by the map. It is only used when the
// map is quiescent.
func (m *durationMap) numEntries() int {
	n := 0
	for i := range m.shards {
		for _, b := range m.shards[i].buckets {
			n += len(b)
		}
	}

	return n
}

// scatterView can only add snapshots. Concurrent Insert calls are safe.
type scatterView struct {
	m *durationMap
}

// Insert adds one snapshot to the actor's bucket.
func (v scatterView) Insert(actor ActorID, s DurationSnapshot) {
	v.m.mustBeIn(phaseScatter, "insert")

	shard := v.m.shardFor(actor)
	shard.Lock()
	shard.buckets[actor] = append(shard.buckets[actor], s)
	shard.Unlock()
}

// gatherView can only read buckets. Reads take no locks.
type gatherView struct {
	m *durationMap
}

// Bucket returns the snapshots contributed for actor, in insertion order. The
// returned slice must not be modified.
func (v gatherView) Bucket(actor ActorID) []DurationSnapshot {
	v.m.mustBeIn(phaseGather, "read")
	return v.m.shardFor(actor).buckets[actor]
}
