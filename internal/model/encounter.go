package model

import (
	"errors"
	"fmt"
	"time"
)

// EncounterID uniquely identifies a stored encounter
type EncounterID int64

// Encounter is a single recorded fight
type Encounter struct {
	ID               EncounterID
	FightStart       time.Time
	LastCombatPacket time.Time
	Duration         time.Duration
	CurrentBoss      string
	LocalPlayer      string // name of the player running the meter
	Difficulty       string
	Cleared          bool
	Favorite         bool
	TotalDamageDealt int64
	TopDamageDealt   int64
	Entities         []Entity
}

// Players returns the player entities of the encounter in their stored order
func (e *Encounter) Players() []*Entity {
	var players []*Entity
	for i := range e.Entities {
		if e.Entities[i].IsPlayer() {
			players = append(players, &e.Entities[i])
		}
	}
	return players
}

// Entity returns the entity with the given name, or nil
func (e *Encounter) Entity(name string) *Entity {
	for i := range e.Entities {
		if e.Entities[i].Name == name {
			return &e.Entities[i]
		}
	}
	return nil
}

// PlayerAt returns the player entity stored at slot, or nil
func (e *Encounter) PlayerAt(slot int) *Entity {
	if slot < 0 || slot >= len(e.Entities) || !e.Entities[slot].IsPlayer() {
		return nil
	}
	return &e.Entities[slot]
}

// Classes returns the classes of all players, in stored order
func (e *Encounter) Classes() []string {
	players := e.Players()
	classes := make([]string, 0, len(players))
	for _, p := range players {
		classes = append(classes, p.Class)
	}
	return classes
}

// UpdateDamageTotals recomputes TotalDamageDealt and TopDamageDealt from player entities
func (e *Encounter) UpdateDamageTotals() {
	var total, top int64
	for _, p := range e.Players() {
		total += p.DamageDealt
		if p.DamageDealt > top {
			top = p.DamageDealt
		}
	}
	e.TotalDamageDealt = total
	e.TopDamageDealt = top
}

// Validate checks the encounter is well formed. The returned error wraps ErrInvalidEncounter.
func (e *Encounter) Validate() error {
	var errs []error

	if e.CurrentBoss == "" {
		errs = append(errs, errors.New("current boss is required"))
	}
	if e.Duration < 0 {
		errs = append(errs, errors.New("duration must not be negative"))
	}
	if len(e.Entities) == 0 {
		errs = append(errs, errors.New("at least one entity is required"))
	}

	seen := make(map[string]bool, len(e.Entities))
	for i, ent := range e.Entities {
		if ent.Name == "" {
			errs = append(errs, fmt.Errorf("entity %d: name is required", i))
			continue
		}
		if seen[ent.Name] {
			errs = append(errs, fmt.Errorf("entity %d: duplicate name %q", i, ent.Name))
		}
		seen[ent.Name] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEncounter, errors.Join(errs...))
	}
	return nil
}
