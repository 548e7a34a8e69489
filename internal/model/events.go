package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventEncounterSaved   EventType = "encounter_saved"
	EventEncounterDeleted EventType = "encounter_deleted"
	EventFavoriteChanged  EventType = "favorite_changed"
)

// Event describes a change to stored encounters
type Event struct {
	Type        EventType
	Timestamp   time.Time
	EncounterID EncounterID
}
