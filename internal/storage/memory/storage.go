package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	encounters map[model.EncounterID]*model.Encounter
	lastID     model.EncounterID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		encounters: make(map[model.EncounterID]*model.Encounter),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveEncounter(ctx context.Context, e *model.Encounter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == 0 {
		s.lastID++
		e.ID = s.lastID
	} else if e.ID > s.lastID {
		s.lastID = e.ID
	}

	s.encounters[e.ID] = cloneEncounter(e)
	return nil
}

func (s *Storage) GetEncounter(ctx context.Context, id model.EncounterID) (*model.Encounter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.encounters[id]
	if !ok {
		return nil, model.ErrEncounterNotFound
	}
	return cloneEncounter(e), nil
}

func (s *Storage) DeleteEncounter(ctx context.Context, id model.EncounterID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.encounters, id)
	return nil
}

func (s *Storage) ListEncounters(ctx context.Context, filter storage.ListFilter) ([]*model.Encounter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Encounter
	for _, e := range s.encounters {
		if filter.Matches(e) {
			result = append(result, e)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].FightStart.Equal(result[j].FightStart) {
			return result[i].ID > result[j].ID
		}
		return result[i].FightStart.After(result[j].FightStart)
	})

	result = storage.Page(result, filter)
	out := make([]*model.Encounter, len(result))
	for i, e := range result {
		out[i] = cloneEncounter(e)
	}
	return out, nil
}

func (s *Storage) SetFavorite(ctx context.Context, id model.EncounterID, favorite bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.encounters[id]
	if !ok {
		return model.ErrEncounterNotFound
	}
	e.Favorite = favorite
	return nil
}

// cloneEncounter copies e deeply enough that callers can't mutate stored state
func cloneEncounter(e *model.Encounter) *model.Encounter {
	c := *e
	c.Entities = make([]model.Entity, len(e.Entities))
	for i, ent := range e.Entities {
		c.Entities[i] = ent
		c.Entities[i].Skills = append([]model.Skill(nil), ent.Skills...)
	}
	return &c
}
