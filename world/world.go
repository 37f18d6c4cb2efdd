// Package world holds the actor population the cooldown engine runs over:
// which actors hold which abilities, and which cooldown effects are active.
package world

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sarchlab/cooldown/cooldown"
	"github.com/sarchlab/cooldown/idgen"
)

var (
	// ErrUnknownActor is returned when an actor ID is not alive.
	ErrUnknownActor = errors.New("world: unknown actor")

	// ErrNotGranted is returned when an actor does not hold an ability.
	ErrNotGranted = errors.New("world: ability not granted")

	// ErrUnknownEffect is returned when an effect ID is not active.
	ErrUnknownEffect = errors.New("world: unknown effect")
)

// World stores actors, their ability records, and active cooldown effects.
// All methods are safe for concurrent use.
type World struct {
	lock sync.RWMutex

	actorIDs  idgen.Generator
	effectIDs idgen.Generator

	actors map[cooldown.ActorID]map[cooldown.AbilityType]*cooldown.AbilityRecord

	granted map[cooldown.AbilityType]*denseStore[cooldown.ActorID, *cooldown.AbilityRecord]
	effects map[cooldown.AbilityType]*denseStore[cooldown.EffectID, cooldown.CooldownSource]

	effectAbility map[cooldown.EffectID]cooldown.AbilityType
}

// New creates an empty world.
func New() *World {
	return &World{
		actorIDs:  idgen.New(),
		effectIDs: idgen.New(),
		actors: make(
			map[cooldown.ActorID]map[cooldown.AbilityType]*cooldown.AbilityRecord),
		granted: make(
			map[cooldown.AbilityType]*denseStore[cooldown.ActorID, *cooldown.AbilityRecord]),
		effects: make(
			map[cooldown.AbilityType]*denseStore[cooldown.EffectID, cooldown.CooldownSource]),
		effectAbility: make(map[cooldown.EffectID]cooldown.AbilityType),
	}
}

// SpawnActor adds an actor without abilities.
func (w *World) SpawnActor() cooldown.ActorID {
	id := cooldown.ActorID(w.actorIDs.Generate())

	w.lock.Lock()
	defer w.lock.Unlock()

	w.actors[id] = make(map[cooldown.AbilityType]*cooldown.AbilityRecord)

	return id
}

// DespawnActor removes an actor together with its ability records and its
// cooldown effects.
func (w *World) DespawnActor(actor cooldown.ActorID) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	abilities, ok := w.actors[actor]
	if !ok {
		return fmt.Errorf("despawn actor %d: %w", actor, ErrUnknownActor)
	}

	for ability := range abilities {
		store := w.granted[ability]
		store.remove(actor)
		if store.len() == 0 {
			delete(w.granted, ability)
		}
	}

	for ability, store := range w.effects {
		for i := store.len() - 1; i >= 0; i-- {
			if store.values[i].Actor == actor {
				delete(w.effectAbility, store.keys[i])
				store.removeAt(i)
			}
		}

		if store.len() == 0 {
			delete(w.effects, ability)
		}
	}

	delete(w.actors, actor)

	return nil
}

// Actors returns the IDs of all living actors in ascending order.
func (w *World) Actors() []cooldown.ActorID {
	w.lock.RLock()
	defer w.lock.RUnlock()

	ids := make([]cooldown.ActorID, 0, len(w.actors))
	for id := range w.actors {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// Grant gives an ability to an actor and returns its record. Granting an
// ability the actor already holds returns the existing record.
func (w *World) Grant(
	actor cooldown.ActorID,
	ability cooldown.AbilityType,
) (*cooldown.AbilityRecord, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	abilities, ok := w.actors[actor]
	if !ok {
		return nil, fmt.Errorf("grant %s to actor %d: %w",
			ability, actor, ErrUnknownActor)
	}

	if rec, ok := abilities[ability]; ok {
		return rec, nil
	}

	rec := &cooldown.AbilityRecord{Actor: actor, Ability: ability}
	abilities[ability] = rec

	store, ok := w.granted[ability]
	if !ok {
		store = newDenseStore[cooldown.ActorID, *cooldown.AbilityRecord]()
		w.granted[ability] = store
	}
	store.set(actor, rec)

	return rec, nil
}

// Revoke takes an ability away from an actor. Cooldown effects on the actor
// stay active.
func (w *World) Revoke(actor cooldown.ActorID, ability cooldown.AbilityType) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	abilities, ok := w.actors[actor]
	if !ok {
		return fmt.Errorf("revoke %s from actor %d: %w",
			ability, actor, ErrUnknownActor)
	}

	if _, ok := abilities[ability]; !ok {
		return fmt.Errorf("revoke %s from actor %d: %w",
			ability, actor, ErrNotGranted)
	}

	delete(abilities, ability)

	store := w.granted[ability]
	store.remove(actor)
	if store.len() == 0 {
		delete(w.granted, ability)
	}

	return nil
}

// Record returns a copy of an actor's ability record.
func (w *World) Record(
	actor cooldown.ActorID,
	ability cooldown.AbilityType,
) (cooldown.AbilityRecord, error) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	abilities, ok := w.actors[actor]
	if !ok {
		return cooldown.AbilityRecord{}, fmt.Errorf("actor %d: %w",
			actor, ErrUnknownActor)
	}

	rec, ok := abilities[ability]
	if !ok {
		return cooldown.AbilityRecord{}, fmt.Errorf("actor %d, %s: %w",
			actor, ability, ErrNotGranted)
	}

	return *rec, nil
}

// Records returns copies of all ability records of an actor, sorted by
// ability.
func (w *World) Records(actor cooldown.ActorID) ([]cooldown.AbilityRecord, error) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	abilities, ok := w.actors[actor]
	if !ok {
		return nil, fmt.Errorf("actor %d: %w", actor, ErrUnknownActor)
	}

	records := make([]cooldown.AbilityRecord, 0, len(abilities))
	for _, rec := range abilities {
		records = append(records, *rec)
	}

	slices.SortFunc(records, func(a, b cooldown.AbilityRecord) int {
		return cmp.Compare(a.Ability, b.Ability)
	})

	return records, nil
}

// ApplyCooldown starts a cooldown effect of the given nominal duration on an
// actor. The actor does not need to hold the ability.
func (w *World) ApplyCooldown(
	actor cooldown.ActorID,
	ability cooldown.AbilityType,
	nominal float64,
) (cooldown.EffectID, error) {
	return w.ApplyCooldownAt(actor, ability, nominal, nominal)
}

// ApplyCooldownAt starts a cooldown effect that has already partially
// elapsed. The values are stored as given.
func (w *World) ApplyCooldownAt(
	actor cooldown.ActorID,
	ability cooldown.AbilityType,
	remaining, nominal float64,
) (cooldown.EffectID, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if _, ok := w.actors[actor]; !ok {
		return 0, fmt.Errorf("apply %s cooldown to actor %d: %w",
			ability, actor, ErrUnknownActor)
	}

	id := cooldown.EffectID(w.effectIDs.Generate())

	store, ok := w.effects[ability]
	if !ok {
		store = newDenseStore[cooldown.EffectID, cooldown.CooldownSource]()
		w.effects[ability] = store
	}

	store.set(id, cooldown.CooldownSource{
		Actor:   actor,
		Effect:  id,
		Ability: ability,
		Duration: cooldown.DurationSnapshot{
			RemainingTime:   remaining,
			NominalDuration: nominal,
		},
	})
	w.effectAbility[id] = ability

	return id, nil
}

// RemoveEffect ends a cooldown effect early.
func (w *World) RemoveEffect(effect cooldown.EffectID) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	ability, ok := w.effectAbility[effect]
	if !ok {
		return fmt.Errorf("remove effect %d: %w", effect, ErrUnknownEffect)
	}

	w.removeEffect(ability, effect)

	return nil
}

func (w *World) removeEffect(ability cooldown.AbilityType, effect cooldown.EffectID) {
	store := w.effects[ability]
	store.remove(effect)
	delete(w.effectAbility, effect)

	if store.len() == 0 {
		delete(w.effects, ability)
	}
}

// Advance moves every cooldown effect dt seconds forward. Effects with no
// remaining time left expire and are removed. It returns the number of
// expired effects.
func (w *World) Advance(dt float64) int {
	w.lock.Lock()
	defer w.lock.Unlock()

	expired := 0
	for ability, store := range w.effects {
		for i := store.len() - 1; i >= 0; i-- {
			src := &store.values[i]
			src.Duration.RemainingTime -= dt

			if src.Duration.RemainingTime <= 0 {
				delete(w.effectAbility, store.keys[i])
				store.removeAt(i)
				expired++
			}
		}

		if store.len() == 0 {
			delete(w.effects, ability)
		}
	}

	return expired
}

// NumEffects returns the number of active cooldown effects.
func (w *World) NumEffects() int {
	w.lock.RLock()
	defer w.lock.RUnlock()

	return len(w.effectAbility)
}

// Abilities returns every ability held by at least one actor, sorted.
func (w *World) Abilities() []cooldown.AbilityType {
	w.lock.RLock()
	defer w.lock.RUnlock()

	return w.sortedAbilities()
}

func (w *World) sortedAbilities() []cooldown.AbilityType {
	abilities := make([]cooldown.AbilityType, 0, len(w.granted))
	for ability := range w.granted {
		abilities = append(abilities, ability)
	}
	slices.Sort(abilities)

	return abilities
}

// Granted returns the records of every actor holding ability.
func (w *World) Granted(ability cooldown.AbilityType) []*cooldown.AbilityRecord {
	w.lock.RLock()
	defer w.lock.RUnlock()

	store, ok := w.granted[ability]
	if !ok {
		return nil
	}

	return slices.Clone(store.values)
}

// CooldownSources returns the active cooldown effects of ability.
func (w *World) CooldownSources(ability cooldown.AbilityType) []cooldown.CooldownSource {
	w.lock.RLock()
	defer w.lock.RUnlock()

	store, ok := w.effects[ability]
	if !ok {
		return nil
	}

	return slices.Clone(store.values)
}

// ForEachAbility calls fn once per held ability, in sorted order, with the
// ability's granted records and active cooldown sources. The world is locked
// for writing during the whole call, so fn may update the records. fn must
// not call other World methods.
func (w *World) ForEachAbility(
	fn func(
		ability cooldown.AbilityType,
		granted []*cooldown.AbilityRecord,
		sources []cooldown.CooldownSource,
	),
) {
	w.lock.Lock()
	defer w.lock.Unlock()

	for _, ability := range w.sortedAbilities() {
		var sources []cooldown.CooldownSource
		if store, ok := w.effects[ability]; ok {
			sources = store.values
		}

		fn(ability, w.granted[ability].values, sources)
	}
}
