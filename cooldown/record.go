package cooldown

import "github.com/sarchlab/cooldown/idgen"

// ActorID is a stable handle into the actor population.
type ActorID idgen.ID

// EffectID identifies one active effect instance.
type EffectID idgen.ID

// AbilityType names a kind of ability, e.g. "fireball".
type AbilityType string

// An AbilityRecord is the per-actor, per-ability state owned by the actor.
// Duration is overwritten on every resolution.
type AbilityRecord struct {
	Actor    ActorID
	Ability  AbilityType
	Duration DurationSnapshot
}

// A CooldownSource is an active effect that contributes a cooldown to an
// actor's ability. The engine only reads it.
type CooldownSource struct {
	Actor    ActorID
	Effect   EffectID
	Ability  AbilityType
	Duration DurationSnapshot
}
