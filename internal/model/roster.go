package model

// RosterRow is one player line of an encounter roster
type RosterRow struct {
	Slot        int    // index of the entity in Encounter.Entities
	Name        string // raw entity name
	DisplayName string // name as it should be shown
	ShortName   string // DisplayName truncated for narrow columns
	Class       string
	GearScore   float64
	DamageDealt int64
	Dps         int64
	DamageShare float64 // percent of the encounter's player damage
	IsDead      bool
	IsLocal     bool
}

// Roster is the player view of an encounter
type Roster struct {
	EncounterID EncounterID
	CurrentBoss string
	Difficulty  string
	Cleared     bool
	HideNames   bool
	Rows        []RosterRow
}
