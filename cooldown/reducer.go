package cooldown

// reduceLongest picks the winning snapshot of every granted actor and writes
// it into the actor's record. The previous value is always replaced.
func reduceLongest(
	pool workPool,
	granted []*AbilityRecord,
	in gatherView,
) *Completion {
	return pool.run(StageReduce, len(granted), func(lo, hi int) {
		for _, rec := range granted[lo:hi] {
			rec.Duration = LongestCooldown(in.Bucket(rec.Actor))
		}
	})
}

// LongestCooldown folds a bucket into one winner, scanning in slice order and
// replacing the current winner only when the candidate outranks it. Exact
// duplicates therefore resolve to whichever comes first. The bucket must not
// be empty.
func LongestCooldown(bucket []DurationSnapshot) DurationSnapshot {
	winner := bucket[0]
	for _, candidate := range bucket[1:] {
		if Outranks(candidate, winner) {
			winner = candidate
		}
	}

	return winner
}
