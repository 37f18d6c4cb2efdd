package simulation

import (
	"github.com/sarchlab/cooldown/cooldown"
	"github.com/sarchlab/cooldown/ticking"
	"github.com/sarchlab/cooldown/world"
)

// CooldownSystem advances the cooldown effects of a world and resolves every
// ability once per tick.
type CooldownSystem struct {
	world    *world.World
	resolver *cooldown.Resolver

	started  bool
	lastTick ticking.VTimeInSec
}

// NewCooldownSystem creates a CooldownSystem.
func NewCooldownSystem(w *world.World, r *cooldown.Resolver) *CooldownSystem {
	return &CooldownSystem{
		world:    w,
		resolver: r,
	}
}

// Tick moves effects forward by the time elapsed since the previous tick and
// then resolves all abilities. It reports progress while any effect is active.
func (s *CooldownSystem) Tick(now ticking.VTimeInSec) bool {
	var dt float64
	if s.started {
		dt = float64(now - s.lastTick)
	}

	s.started = true
	s.lastTick = now

	expired := s.world.Advance(dt)
	s.world.ForEachAbility(s.resolver.Resolve)

	return expired > 0 || s.world.NumEffects() > 0
}
