package tracing

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/sarchlab/cooldown/cooldown"
	"github.com/sarchlab/cooldown/hooking"
)

type stageKey struct {
	res   *cooldown.Resolution
	stage cooldown.Stage
}

// StageStat is the accumulated wall time of one stage.
type StageStat struct {
	Stage cooldown.Stage
	Total time.Duration
	Count uint64
}

// Average returns the mean wall time per invocation.
func (s StageStat) Average() time.Duration {
	if s.Count == 0 {
		return 0
	}

	return s.Total / time.Duration(s.Count)
}

// StageTimeTracer accumulates the wall time spent in each resolution stage.
// Stages that run concurrently are counted separately.
type StageTimeTracer struct {
	lock     sync.Mutex
	now      func() time.Time
	inflight map[stageKey]time.Time
	stats    map[cooldown.Stage]*StageStat
}

// NewStageTimeTracer creates a new StageTimeTracer.
func NewStageTimeTracer() *StageTimeTracer {
	return &StageTimeTracer{
		now:      time.Now,
		inflight: make(map[stageKey]time.Time),
		stats:    make(map[cooldown.Stage]*StageStat),
	}
}

// Func handles the stage hooks of a Resolver.
func (t *StageTimeTracer) Func(ctx hooking.HookCtx) {
	switch ctx.Pos {
	case cooldown.HookPosBeforeStage:
		t.startStage(ctx)
	case cooldown.HookPosAfterStage:
		t.endStage(ctx)
	}
}

func (t *StageTimeTracer) startStage(ctx hooking.HookCtx) {
	key := stageKey{
		res:   ctx.Detail.(*cooldown.Resolution),
		stage: ctx.Item.(cooldown.Stage),
	}

	t.lock.Lock()
	t.inflight[key] = t.now()
	t.lock.Unlock()
}

func (t *StageTimeTracer) endStage(ctx hooking.HookCtx) {
	key := stageKey{
		res:   ctx.Detail.(*cooldown.Resolution),
		stage: ctx.Item.(cooldown.Stage),
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	start, ok := t.inflight[key]
	if !ok {
		return
	}

	delete(t.inflight, key)

	stat, ok := t.stats[key.stage]
	if !ok {
		stat = &StageStat{Stage: key.stage}
		t.stats[key.stage] = stat
	}

	stat.Total += t.now().Sub(start)
	stat.Count++
}

// Stats returns the accumulated stats ordered by stage name.
func (t *StageTimeTracer) Stats() []StageStat {
	t.lock.Lock()
	defer t.lock.Unlock()

	stats := make([]StageStat, 0, len(t.stats))
	for _, s := range t.stats {
		stats = append(stats, *s)
	}

	slices.SortFunc(stats, func(a, b StageStat) int {
		return cmp.Compare(a.Stage, b.Stage)
	})

	return stats
}

// Report writes one line per stage.
func (t *StageTimeTracer) Report(w io.Writer) error {
	for _, s := range t.Stats() {
		_, err := fmt.Fprintf(w, "%-8s count=%d total=%v avg=%v\n",
			s.Stage, s.Count, s.Total, s.Average())
		if err != nil {
			return err
		}
	}

	return nil
}
