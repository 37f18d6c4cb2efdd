// Package cooldown resolves, once per tick, the effective cooldown of every
// actor holding an ability.
//
// Each resolution scatters the active cooldown sources and a zero default per
// granted actor into a transient multi-map, then reduces every granted
// actor's bucket into a single winner that is written into its
// AbilityRecord.
package cooldown

import "github.com/sarchlab/cooldown/hooking"

// A Resolver runs the collect/seed/reduce pipeline. It owns the duration map
// of each resolution from allocation to release. A Resolver must not run two
// resolutions over the same records at the same time.
type Resolver struct {
	*hooking.HookableBase

	pool   workPool
	shards int
}

// Resolve computes the effective cooldown of ability for every record in
// granted and writes it into the record's Duration field. sources holds the
// active cooldown effects of that ability; they are only read.
func (r *Resolver) Resolve(
	ability AbilityType,
	granted []*AbilityRecord,
	sources []CooldownSource,
) {
	res := &Resolution{
		Ability:  ability,
		Granted:  granted,
		Sources:  sources,
		Capacity: 2 * len(sources),
		Entries:  len(sources) + len(granted),
	}

	r.resolveInMap(res)

	r.invoke(HookPosAfterResolve, res, nil)
}

func (r *Resolver) resolveInMap(res *Resolution) {
	m := newDurationMap(res.Capacity, r.shards)
	defer r.release(m, res)

	r.invoke(HookPosMapAcquire, res, nil)

	r.scatter(m, res)
	r.reduce(m.seal(), res)
}

func (r *Resolver) scatter(m *durationMap, res *Resolution) {
	out := m.scatter()

	r.invoke(HookPosBeforeStage, StageCollect, res)
	r.invoke(HookPosBeforeStage, StageSeed, res)

	collected := collectDurations(r.pool, res.Sources, out)
	seeded := seedDefaults(r.pool, res.Granted, out)
	Join(collected, seeded)

	r.invoke(HookPosAfterStage, StageCollect, res)
	r.invoke(HookPosAfterStage, StageSeed, res)
}

func (r *Resolver) reduce(in gatherView, res *Resolution) {
	r.invoke(HookPosBeforeStage, StageReduce, res)

	reduceLongest(r.pool, res.Granted, in).Wait()

	r.invoke(HookPosAfterStage, StageReduce, res)
}

func (r *Resolver) release(m *durationMap, res *Resolution) {
	m.release()
	r.invoke(HookPosMapRelease, res, nil)
}

func (r *Resolver) invoke(pos *hooking.HookPos, item, detail any) {
	if r.NumHooks() == 0 {
		return
	}

	r.InvokeHook(hooking.HookCtx{
		Domain: r,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}

// Parallelism returns the maximum number of workers a stage uses.
func (r *Resolver) Parallelism() int {
	return r.pool.workers
}
