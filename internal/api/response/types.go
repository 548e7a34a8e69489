package response

import (
	"time"

	"github.com/mcoot/encounterlog/internal/api/request"
	"github.com/mcoot/encounterlog/internal/model"
)

// Entity represents an encounter participant in API responses
type Entity = request.Entity

// Skill represents a skill in API responses
type Skill = request.Skill

// EntityFromModel converts a model.Entity
func EntityFromModel(e model.Entity) Entity {
	out := Entity{
		Name:        e.Name,
		EntityType:  string(e.EntityType),
		NpcID:       e.NpcID,
		ClassID:     e.ClassID,
		Class:       e.Class,
		GearScore:   e.GearScore,
		CurrentHP:   e.CurrentHP,
		MaxHP:       e.MaxHP,
		IsDead:      e.IsDead,
		DamageDealt: e.DamageDealt,
		DamageTaken: e.DamageTaken,
		Dps:         e.Dps,
	}
	for _, sk := range e.Skills {
		out.Skills = append(out.Skills, Skill(sk))
	}
	return out
}

// EncounterPreview is the list view of an encounter
type EncounterPreview struct {
	ID               int64     `json:"id"`
	FightStart       time.Time `json:"fight_start"`
	DurationMs       int64     `json:"duration_ms"`
	CurrentBoss      string    `json:"current_boss"`
	LocalPlayer      string    `json:"local_player,omitempty"`
	Difficulty       string    `json:"difficulty,omitempty"`
	Cleared          bool      `json:"cleared"`
	Favorite         bool      `json:"favorite"`
	TotalDamageDealt int64     `json:"total_damage_dealt"`
	Classes          []string  `json:"classes"`
}

// EncounterPreviewFromModel converts a model.Encounter
func EncounterPreviewFromModel(e *model.Encounter) EncounterPreview {
	return EncounterPreview{
		ID:               int64(e.ID),
		FightStart:       e.FightStart,
		DurationMs:       e.Duration.Milliseconds(),
		CurrentBoss:      e.CurrentBoss,
		LocalPlayer:      e.LocalPlayer,
		Difficulty:       e.Difficulty,
		Cleared:          e.Cleared,
		Favorite:         e.Favorite,
		TotalDamageDealt: e.TotalDamageDealt,
		Classes:          e.Classes(),
	}
}

// EncounterList is the response for listing encounters
type EncounterList struct {
	Encounters []EncounterPreview `json:"encounters"`
}

// Encounter is the full view of an encounter
type Encounter struct {
	EncounterPreview
	LastCombatPacket time.Time `json:"last_combat_packet"`
	TopDamageDealt   int64     `json:"top_damage_dealt"`
	Entities         []Entity  `json:"entities"`
}

// EncounterFromModel converts a model.Encounter
func EncounterFromModel(e *model.Encounter) Encounter {
	entities := make([]Entity, 0, len(e.Entities))
	for _, ent := range e.Entities {
		entities = append(entities, EntityFromModel(ent))
	}
	return Encounter{
		EncounterPreview: EncounterPreviewFromModel(e),
		LastCombatPacket: e.LastCombatPacket,
		TopDamageDealt:   e.TopDamageDealt,
		Entities:         entities,
	}
}

// RosterRow represents one player in a roster
type RosterRow struct {
	Slot        int     `json:"slot"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	ShortName   string  `json:"short_name"`
	Class       string  `json:"class,omitempty"`
	GearScore   float64 `json:"gear_score,omitempty"`
	DamageDealt int64   `json:"damage_dealt"`
	Dps         int64   `json:"dps"`
	DamageShare float64 `json:"damage_share"`
	IsDead      bool    `json:"is_dead"`
	IsLocal     bool    `json:"is_local"`
}

// Roster is the player view of an encounter
type Roster struct {
	EncounterID int64       `json:"encounter_id"`
	CurrentBoss string      `json:"current_boss"`
	Difficulty  string      `json:"difficulty,omitempty"`
	Cleared     bool        `json:"cleared"`
	HideNames   bool        `json:"hide_names"`
	Rows        []RosterRow `json:"rows"`
}

// RosterFromModel converts a model.Roster
func RosterFromModel(r *model.Roster) Roster {
	rows := make([]RosterRow, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, RosterRow(row))
	}
	return Roster{
		EncounterID: int64(r.EncounterID),
		CurrentBoss: r.CurrentBoss,
		Difficulty:  r.Difficulty,
		Cleared:     r.Cleared,
		HideNames:   r.HideNames,
		Rows:        rows,
	}
}

// SkillView is a skill prepared for display
type SkillView struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon,omitempty"`
	Description string  `json:"description"`
	TotalDamage int64   `json:"total_damage"`
	Casts       int64   `json:"casts"`
	DamageShare float64 `json:"damage_share"`
}

// SkillList is the response for an entity's skills
type SkillList struct {
	Entity string      `json:"entity"`
	Skills []SkillView `json:"skills"`
}

// SkillListFromModel converts a slice of model.SkillView
func SkillListFromModel(entity string, skills []model.SkillView) SkillList {
	out := SkillList{Entity: entity, Skills: make([]SkillView, 0, len(skills))}
	for _, sk := range skills {
		out.Skills = append(out.Skills, SkillView(sk))
	}
	return out
}

// FormatNameResponse is the response for formatting a player name
type FormatNameResponse struct {
	DisplayName string `json:"display_name"`
}

// FormatTextResponse is the response for formatting free text
type FormatTextResponse struct {
	Text string `json:"text"`
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
