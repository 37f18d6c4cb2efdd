package cooldown

import "fmt"

// DurationSnapshot describes one cooldown instance at the current tick.
// RemainingTime is expected to lie within [0, NominalDuration]; the engine
// does not check it.
type DurationSnapshot struct {
	RemainingTime   float64
	NominalDuration float64
}

// ZeroSnapshot returns the snapshot that means "no active cooldown".
func ZeroSnapshot() DurationSnapshot {
	return DurationSnapshot{}
}

// IsZero returns true if both fields are 0.
func (s DurationSnapshot) IsZero() bool {
	return s.RemainingTime == 0 && s.NominalDuration == 0
}

// String formats the snapshot as remaining/nominal seconds.
func (s DurationSnapshot) String() string {
	return fmt.Sprintf("%g/%gs", s.RemainingTime, s.NominalDuration)
}

// Outranks returns true if candidate should replace winner as the effective
// cooldown.
//
// More remaining time always wins. On equal remaining time, the cooldown with
// the longer nominal duration wins, so a 10s cooldown at 1s remaining
// outranks a 2s cooldown at 1s remaining. When both fields are equal the
// current winner is kept.
func Outranks(candidate, winner DurationSnapshot) bool {
	diff := candidate.RemainingTime - winner.RemainingTime
	if diff > 0 {
		return true
	}

	return diff == 0 && candidate.NominalDuration > winner.NominalDuration
}
