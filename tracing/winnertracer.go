package tracing

import (
	"context"
	"sync"

	"github.com/sarchlab/cooldown/cooldown"
	"github.com/sarchlab/cooldown/datarecording"
	"github.com/sarchlab/cooldown/hooking"
)

// WinnerTableName is the table WinnerTracer writes into.
const WinnerTableName = "cooldown_winners"

// A WinnerEntry is the resolved cooldown of one ability record at one tick.
type WinnerEntry struct {
	Tick      uint64
	Ability   string
	Actor     uint64
	Remaining float64
	Nominal   float64
}

// WinnerTracer records the winner of every granted record after each
// resolution.
type WinnerTracer struct {
	lock    sync.Mutex
	ticks   TickTeller
	backend datarecording.DataRecorder
	count   uint64
}

// NewWinnerTracer creates a WinnerTracer and the table it writes into.
func NewWinnerTracer(
	ticks TickTeller,
	backend datarecording.DataRecorder,
) *WinnerTracer {
	backend.CreateTable(WinnerTableName, WinnerEntry{})

	return &WinnerTracer{
		ticks:   ticks,
		backend: backend,
	}
}

// Func records the granted records of a finished resolution.
func (t *WinnerTracer) Func(ctx hooking.HookCtx) {
	if ctx.Pos != cooldown.HookPosAfterResolve {
		return
	}

	res := ctx.Item.(*cooldown.Resolution)
	tick := t.ticks.TickCount()

	t.lock.Lock()
	defer t.lock.Unlock()

	for _, rec := range res.Granted {
		t.backend.InsertData(WinnerTableName, WinnerEntry{
			Tick:      tick,
			Ability:   string(rec.Ability),
			Actor:     uint64(rec.Actor),
			Remaining: rec.Duration.RemainingTime,
			Nominal:   rec.Duration.NominalDuration,
		})
		t.count++
	}
}

// NumRecorded returns how many entries the tracer has written.
func (t *WinnerTracer) NumRecorded() uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.count
}

// ReadWinners queries the winner table of a recording.
func ReadWinners(
	ctx context.Context,
	reader datarecording.DataReader,
	params datarecording.QueryParams,
) ([]WinnerEntry, int, error) {
	reader.MapTable(WinnerTableName, WinnerEntry{})

	rows, total, err := reader.Query(ctx, WinnerTableName, params)
	if err != nil {
		return nil, 0, err
	}

	entries := make([]WinnerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, *row.(*WinnerEntry))
	}

	return entries, total, nil
}
