package cooldown

// collectDurations inserts one (actor, snapshot) pair per cooldown source. It
// never reads the map, and sources whose actor is not granted the ability are
// inserted all the same.
func collectDurations(
	pool workPool,
	sources []CooldownSource,
	out scatterView,
) *Completion {
	return pool.run(StageCollect, len(sources), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out.Insert(sources[i].Actor, sources[i].Duration)
		}
	})
}
