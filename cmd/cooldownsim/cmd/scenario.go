package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ActorSpec declares an actor and the abilities it is granted.
type ActorSpec struct {
	Name      string   `toml:"name"`
	Abilities []string `toml:"abilities"`
}

// CooldownSpec declares a cooldown effect active when the scenario starts.
// Remaining defaults to Nominal.
type CooldownSpec struct {
	Actor     string  `toml:"actor"`
	Ability   string  `toml:"ability"`
	Nominal   float64 `toml:"nominal"`
	Remaining float64 `toml:"remaining"`
}

// Scenario is a cooldown simulation loaded from a TOML file.
type Scenario struct {
	Name      string
	Ticks     int
	Freq      float64
	Workers   int
	Shards    int
	Actors    []ActorSpec
	Cooldowns []CooldownSpec
}

// scenario.toml key mapping to Scenario.
type scenarioFile struct {
	Name      string         `toml:"name"`
	Ticks     int            `toml:"ticks"`
	Freq      float64        `toml:"freq"`
	Workers   int            `toml:"workers"`
	Shards    int            `toml:"shards"`
	Actors    []ActorSpec    `toml:"actors"`
	Cooldowns []cooldownFile `toml:"cooldowns"`
}

type cooldownFile struct {
	Actor     string   `toml:"actor"`
	Ability   string   `toml:"ability"`
	Nominal   float64  `toml:"nominal"`
	Remaining *float64 `toml:"remaining"`
}

// DefaultScenario returns an empty scenario that ticks 60 times per second
// for one second.
func DefaultScenario() Scenario {
	return Scenario{
		Name:  "unnamed",
		Ticks: 60,
		Freq:  60,
	}
}

// LoadScenario reads a scenario file and overlays it on the defaults.
func LoadScenario(path string) (Scenario, error) {
	var raw scenarioFile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Scenario{}, fmt.Errorf("load scenario: %w", err)
	}

	return overlayScenario(raw, meta)
}

// ParseScenario decodes a scenario from TOML text.
func ParseScenario(data string) (Scenario, error) {
	var raw scenarioFile
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}

	return overlayScenario(raw, meta)
}

func overlayScenario(raw scenarioFile, meta toml.MetaData) (Scenario, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Scenario{}, fmt.Errorf("unknown scenario key %q", undecoded[0])
	}

	sc := DefaultScenario()

	if meta.IsDefined("name") {
		sc.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("ticks") {
		sc.Ticks = raw.Ticks
	}
	if meta.IsDefined("freq") {
		sc.Freq = raw.Freq
	}
	if meta.IsDefined("workers") {
		sc.Workers = raw.Workers
	}
	if meta.IsDefined("shards") {
		sc.Shards = raw.Shards
	}

	sc.Actors = raw.Actors
	for _, c := range raw.Cooldowns {
		spec := CooldownSpec{
			Actor:     strings.TrimSpace(c.Actor),
			Ability:   strings.TrimSpace(c.Ability),
			Nominal:   c.Nominal,
			Remaining: c.Nominal,
		}
		if c.Remaining != nil {
			spec.Remaining = *c.Remaining
		}

		sc.Cooldowns = append(sc.Cooldowns, spec)
	}

	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}

	return sc, nil
}

var errInvalidScenario = errors.New("invalid scenario")

// Validate checks that the scenario can be run.
func (sc Scenario) Validate() error {
	if sc.Ticks < 0 {
		return fmt.Errorf("%w: ticks must not be negative", errInvalidScenario)
	}

	if sc.Freq <= 0 {
		return fmt.Errorf("%w: freq must be positive", errInvalidScenario)
	}

	if sc.Workers < 0 || sc.Shards < 0 {
		return fmt.Errorf("%w: workers and shards must not be negative",
			errInvalidScenario)
	}

	names := make(map[string]bool, len(sc.Actors))
	for _, a := range sc.Actors {
		if a.Name == "" {
			return fmt.Errorf("%w: actor without name", errInvalidScenario)
		}

		if names[a.Name] {
			return fmt.Errorf("%w: duplicated actor %q", errInvalidScenario, a.Name)
		}

		names[a.Name] = true
	}

	for _, c := range sc.Cooldowns {
		if !names[c.Actor] {
			return fmt.Errorf("%w: cooldown on unknown actor %q",
				errInvalidScenario, c.Actor)
		}

		if c.Ability == "" {
			return fmt.Errorf("%w: cooldown without ability", errInvalidScenario)
		}

		if c.Nominal <= 0 {
			return fmt.Errorf("%w: cooldown %s on %s must have a positive nominal",
				errInvalidScenario, c.Ability, c.Actor)
		}
	}

	return nil
}
