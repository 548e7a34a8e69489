package request

import (
	"time"

	"github.com/mcoot/encounterlog/internal/display"
	"github.com/mcoot/encounterlog/internal/model"
)

// Skill is a skill in an ingested encounter
type Skill struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Tooltip     string `json:"tooltip,omitempty"`
	TotalDamage int64  `json:"total_damage"`
	Casts       int64  `json:"casts"`
}

// Entity is a participant in an ingested encounter
type Entity struct {
	Name        string  `json:"name"`
	EntityType  string  `json:"entity_type"`
	NpcID       int64   `json:"npc_id,omitempty"`
	ClassID     int64   `json:"class_id,omitempty"`
	Class       string  `json:"class,omitempty"`
	GearScore   float64 `json:"gear_score,omitempty"`
	CurrentHP   int64   `json:"current_hp,omitempty"`
	MaxHP       int64   `json:"max_hp,omitempty"`
	IsDead      bool    `json:"is_dead"`
	DamageDealt int64   `json:"damage_dealt"`
	DamageTaken int64   `json:"damage_taken,omitempty"`
	Dps         int64   `json:"dps"`
	Skills      []Skill `json:"skills,omitempty"`
}

// IngestEncounterRequest is the request body for storing a recorded encounter
type IngestEncounterRequest struct {
	FightStart       time.Time `json:"fight_start"`
	LastCombatPacket time.Time `json:"last_combat_packet"`
	DurationMs       int64     `json:"duration_ms"`
	CurrentBoss      string    `json:"current_boss"`
	LocalPlayer      string    `json:"local_player,omitempty"`
	Difficulty       string    `json:"difficulty,omitempty"`
	Cleared          bool      `json:"cleared"`
	Entities         []Entity  `json:"entities"`
}

// ToModel converts the request into a model.Encounter
func (r IngestEncounterRequest) ToModel() *model.Encounter {
	e := &model.Encounter{
		FightStart:       r.FightStart,
		LastCombatPacket: r.LastCombatPacket,
		Duration:         time.Duration(r.DurationMs) * time.Millisecond,
		CurrentBoss:      r.CurrentBoss,
		LocalPlayer:      r.LocalPlayer,
		Difficulty:       r.Difficulty,
		Cleared:          r.Cleared,
		Entities:         make([]model.Entity, 0, len(r.Entities)),
	}
	for _, ent := range r.Entities {
		e.Entities = append(e.Entities, ent.ToModel())
	}
	return e
}

// ToModel converts the request entity into a model.Entity
func (r Entity) ToModel() model.Entity {
	ent := model.Entity{
		Name:        r.Name,
		EntityType:  model.ParseEntityType(r.EntityType),
		NpcID:       r.NpcID,
		ClassID:     r.ClassID,
		Class:       r.Class,
		GearScore:   r.GearScore,
		CurrentHP:   r.CurrentHP,
		MaxHP:       r.MaxHP,
		IsDead:      r.IsDead,
		DamageDealt: r.DamageDealt,
		DamageTaken: r.DamageTaken,
		Dps:         r.Dps,
	}
	for _, sk := range r.Skills {
		ent.Skills = append(ent.Skills, model.Skill(sk))
	}
	return ent
}

// SetFavoriteRequest is the request body for marking an encounter as a favorite
type SetFavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// FormatNameRequest is the request body for formatting a player name
type FormatNameRequest struct {
	Name      string `json:"name"`
	Class     string `json:"class"`
	IsDead    bool   `json:"is_dead"`
	HideNames bool   `json:"hide_names"`
}

// FormatTextRequest is the request body for formatting free text
type FormatTextRequest struct {
	Text      string `json:"text"`
	MaxLength *int   `json:"max_length,omitempty"` // nil for display.DefaultTruncateLength
	Sanitize  bool   `json:"sanitize"`
}

// Length returns the requested truncation length, or the default when omitted
func (r FormatTextRequest) Length() int {
	if r.MaxLength == nil {
		return display.DefaultTruncateLength
	}
	return *r.MaxLength
}
