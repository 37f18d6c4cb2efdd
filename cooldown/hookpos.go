package cooldown

import (
	"fmt"

	"github.com/sarchlab/cooldown/hooking"
)

// HookPosMapAcquire fires after the duration map of a resolution is
// allocated. Item is the *Resolution.
var HookPosMapAcquire = &hooking.HookPos{Name: "MapAcquire"}

// HookPosBeforeStage fires before the workers of a stage start. Item is the
// Stage and Detail is the *Resolution.
var HookPosBeforeStage = &hooking.HookPos{Name: "BeforeStage"}

// HookPosAfterStage fires once the workers of a stage are joined. Item is the
// Stage and Detail is the *Resolution.
var HookPosAfterStage = &hooking.HookPos{Name: "AfterStage"}

// HookPosMapRelease fires after the duration map is released. Item is the
// *Resolution.
var HookPosMapRelease = &hooking.HookPos{Name: "MapRelease"}

// HookPosAfterResolve fires after every granted record holds its new winner.
// Item is the *Resolution.
var HookPosAfterResolve = &hooking.HookPos{Name: "AfterResolve"}

// A Resolution describes one call to Resolver.Resolve. Hooks must not keep it
// beyond the hook call; Granted and Sources belong to the caller.
type Resolution struct {
	Ability AbilityType
	Granted []*AbilityRecord
	Sources []CooldownSource

	// Capacity is the size hint the duration map was allocated with.
	Capacity int

	// Entries is the number of snapshots scattered into the map.
	Entries int
}

func (r *Resolution) String() string {
	return fmt.Sprintf("ability=%s granted=%d sources=%d entries=%d",
		r.Ability, len(r.Granted), len(r.Sources), r.Entries)
}
