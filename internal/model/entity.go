package model

// EntityType classifies a participant in an encounter
type EntityType string

const (
	EntityTypePlayer  EntityType = "PLAYER"
	EntityTypeBoss    EntityType = "BOSS"
	EntityTypeNPC     EntityType = "NPC"
	EntityTypeEsther  EntityType = "ESTHER"
	EntityTypeUnknown EntityType = "UNKNOWN"
)

// ParseEntityType converts a raw type string, defaulting to EntityTypeUnknown
func ParseEntityType(s string) EntityType {
	switch EntityType(s) {
	case EntityTypePlayer, EntityTypeBoss, EntityTypeNPC, EntityTypeEsther:
		return EntityType(s)
	default:
		return EntityTypeUnknown
	}
}

// Skill is one skill used by an entity during an encounter
type Skill struct {
	ID          int64
	Name        string
	Icon        string
	Tooltip     string // raw client tooltip, may contain pseudo-tags
	TotalDamage int64
	Casts       int64
}

// Entity is a participant in an encounter: a player, boss or other NPC
type Entity struct {
	Name        string
	EntityType  EntityType
	NpcID       int64
	ClassID     int64
	Class       string // empty if the meter never identified it
	GearScore   float64
	CurrentHP   int64
	MaxHP       int64
	IsDead      bool
	DamageDealt int64
	DamageTaken int64
	Dps         int64
	Skills      []Skill
}

// IsPlayer returns true for player entities
func (e *Entity) IsPlayer() bool {
	return e.EntityType == EntityTypePlayer
}

// SkillView is a skill prepared for display
type SkillView struct {
	ID          int64
	Name        string
	Icon        string
	Description string // tooltip with unknown pseudo-tags removed
	TotalDamage int64
	Casts       int64
	DamageShare float64 // percent of the entity's damage
}
