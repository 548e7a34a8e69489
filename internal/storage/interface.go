package storage

import (
	"context"
	"strings"

	"github.com/mcoot/encounterlog/internal/model"
)

// ListFilter narrows and pages ListEncounters results
type ListFilter struct {
	Boss          string // exact match, empty for all
	Search        string // case-insensitive substring of the boss or a player name
	FavoritesOnly bool
	Limit         int // 0 for no limit
	Offset        int
}

// Matches reports whether the encounter passes the boss and favorite filters
func (f ListFilter) Matches(e *model.Encounter) bool {
	if f.Boss != "" && e.CurrentBoss != f.Boss {
		return false
	}
	if f.FavoritesOnly && !e.Favorite {
		return false
	}
	if f.Search != "" && !MatchesSearch(e, f.Search) {
		return false
	}
	return true
}

// MatchesSearch reports whether term occurs in the boss name or a player name, ignoring case
func MatchesSearch(e *model.Encounter, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(e.CurrentBoss), term) {
		return true
	}
	for _, p := range e.Players() {
		if strings.Contains(strings.ToLower(p.Name), term) {
			return true
		}
	}
	return false
}

// PlayerNames returns the encounter's player names in stored order
func PlayerNames(e *model.Encounter) []string {
	players := e.Players()
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	return names
}

// Page applies Offset and Limit to an already filtered and ordered slice
func Page[T any](items []T, f ListFilter) []T {
	if f.Offset >= len(items) {
		return []T{}
	}
	if f.Offset > 0 {
		items = items[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(items) {
		items = items[:f.Limit]
	}
	return items
}

// Storage defines the interface for data persistence
type Storage interface {
	// SaveEncounter stores an encounter, assigning a new ID when e.ID is zero
	SaveEncounter(ctx context.Context, e *model.Encounter) error
	GetEncounter(ctx context.Context, id model.EncounterID) (*model.Encounter, error)
	DeleteEncounter(ctx context.Context, id model.EncounterID) error

	// ListEncounters returns encounters newest first
	ListEncounters(ctx context.Context, filter ListFilter) ([]*model.Encounter, error)
	SetFavorite(ctx context.Context, id model.EncounterID, favorite bool) error
}
