package cooldown

// seedDefaults inserts a zero snapshot for every granted actor so that the
// reducer always finds a non-empty bucket.
func seedDefaults(
	pool workPool,
	granted []*AbilityRecord,
	out scatterView,
) *Completion {
	return pool.run(StageSeed, len(granted), func(lo, hi int) {
		for _, rec := range granted[lo:hi] {
			out.Insert(rec.Actor, ZeroSnapshot())
		}
	})
}
