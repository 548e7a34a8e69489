// Package storagetest provides a behavioural test suite shared by every
// storage.Storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/storage"
)

// Suite runs the storage contract against the backend built by NewStorage.
// Embed it in a backend test and set NewStorage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

// NewEncounter returns a valid encounter starting offset after a fixed base time
func NewEncounter(boss string, offset time.Duration) *model.Encounter {
	return &model.Encounter{
		FightStart:  baseTime.Add(offset),
		Duration:    5 * time.Minute,
		CurrentBoss: boss,
		LocalPlayer: "Alice",
		Difficulty:  "Normal",
		Entities: []model.Entity{
			{
				Name:        "Alice",
				EntityType:  model.EntityTypePlayer,
				Class:       "Berserker",
				ClassID:     102,
				GearScore:   1600,
				DamageDealt: 1_000_000,
				Dps:         3333,
				Skills: []model.Skill{
					{ID: 16140, Name: "Red Dust", Tooltip: "Deals <$CALC v=1/> damage", TotalDamage: 600_000, Casts: 12},
					{ID: 16300, Name: "Hell Blade", TotalDamage: 400_000, Casts: 4},
				},
			},
			{
				Name:        "bob",
				EntityType:  model.EntityTypePlayer,
				Class:       "Bard",
				ClassID:     204,
				IsDead:      true,
				DamageDealt: 200_000,
				Dps:         666,
			},
			{
				Name:       boss,
				EntityType: model.EntityTypeBoss,
				NpcID:      480010,
				CurrentHP:  0,
				MaxHP:      5_000_000,
			},
		},
	}
}

func (s *Suite) save(e *model.Encounter) *model.Encounter {
	s.Require().NoError(s.Storage.SaveEncounter(s.Ctx, e))
	return e
}

func (s *Suite) TestSaveAssignsIDs() {
	first := s.save(NewEncounter("Valtan", 0))
	second := s.save(NewEncounter("Vykas", time.Minute))

	s.NotZero(first.ID)
	s.NotZero(second.ID)
	s.NotEqual(first.ID, second.ID)
}

func (s *Suite) TestSaveAndGetEncounter() {
	e := s.save(NewEncounter("Valtan", 0))

	got, err := s.Storage.GetEncounter(s.Ctx, e.ID)
	s.Require().NoError(err)

	s.Equal(e.ID, got.ID)
	s.Equal("Valtan", got.CurrentBoss)
	s.Equal("Alice", got.LocalPlayer)
	s.True(e.FightStart.Equal(got.FightStart))
	s.Equal(e.Duration, got.Duration)
	s.Require().Len(got.Entities, 3)
	s.Equal(e.Entities[0].Name, got.Entities[0].Name)
	s.Equal(e.Entities[0].Class, got.Entities[0].Class)
	s.Equal(e.Entities[0].GearScore, got.Entities[0].GearScore)
	s.Equal(e.Entities[1].IsDead, got.Entities[1].IsDead)
	s.Equal(model.EntityTypeBoss, got.Entities[2].EntityType)
	s.Equal(e.Entities[0].Skills, got.Entities[0].Skills)
}

func (s *Suite) TestSaveUpserts() {
	e := s.save(NewEncounter("Valtan", 0))
	e.Cleared = true
	e.Entities = e.Entities[:1]
	s.save(e)

	got, err := s.Storage.GetEncounter(s.Ctx, e.ID)
	s.Require().NoError(err)
	s.True(got.Cleared)
	s.Len(got.Entities, 1)
}

func (s *Suite) TestGetEncounterNotFound() {
	_, err := s.Storage.GetEncounter(s.Ctx, 424242)
	s.ErrorIs(err, model.ErrEncounterNotFound)
}

func (s *Suite) TestReturnedEncounterIsACopy() {
	e := s.save(NewEncounter("Valtan", 0))

	got, err := s.Storage.GetEncounter(s.Ctx, e.ID)
	s.Require().NoError(err)
	got.Entities[0].Name = "Mallory"

	again, err := s.Storage.GetEncounter(s.Ctx, e.ID)
	s.Require().NoError(err)
	s.Equal("Alice", again.Entities[0].Name)
}

func (s *Suite) TestDeleteEncounter() {
	e := s.save(NewEncounter("Valtan", 0))

	s.Require().NoError(s.Storage.DeleteEncounter(s.Ctx, e.ID))

	_, err := s.Storage.GetEncounter(s.Ctx, e.ID)
	s.ErrorIs(err, model.ErrEncounterNotFound)

	// Deleting again is fine
	s.NoError(s.Storage.DeleteEncounter(s.Ctx, e.ID))

	list, err := s.Storage.ListEncounters(s.Ctx, storage.ListFilter{})
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *Suite) TestListNewestFirst() {
	older := s.save(NewEncounter("Valtan", 0))
	newest := s.save(NewEncounter("Vykas", 2*time.Hour))
	middle := s.save(NewEncounter("Kakul", time.Hour))

	list, err := s.Storage.ListEncounters(s.Ctx, storage.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal(newest.ID, list[0].ID)
	s.Equal(middle.ID, list[1].ID)
	s.Equal(older.ID, list[2].ID)
}

func (s *Suite) TestListFilterByBoss() {
	s.save(NewEncounter("Valtan", 0))
	s.save(NewEncounter("Vykas", time.Minute))
	s.save(NewEncounter("Valtan", 2*time.Minute))

	list, err := s.Storage.ListEncounters(s.Ctx, storage.ListFilter{Boss: "Valtan"})
	s.Require().NoError(err)
	s.Len(list, 2)
	for _, e := range list {
		s.Equal("Valtan", e.CurrentBoss)
	}
}

func (s *Suite) searchBosses(term string) []string {
	list, err := s.Storage.ListEncounters(s.Ctx, storage.ListFilter{Search: term})
	s.Require().NoError(err)
	bosses := make([]string, 0, len(list))
	for _, e := range list {
		bosses = append(bosses, e.CurrentBoss)
	}
	return bosses
}

func (s *Suite) TestListSearch() {
	s.save(NewEncounter("Valtan", 0))
	vykas := NewEncounter("Vykas", time.Minute)
	vykas.Entities[1].Name = "Zephyr"
	s.save(vykas)
	s.save(NewEncounter("Brelshaza", 2*time.Minute))

	s.Equal([]string{"Vykas"}, s.searchBosses("yka"), "boss substring")
	s.Equal([]string{"Vykas"}, s.searchBosses("VYKAS"), "case-insensitive")
	s.Equal([]string{"Vykas"}, s.searchBosses("zeph"), "player name")
	s.Equal([]string{"Brelshaza", "Vykas", "Valtan"}, s.searchBosses("ali"), "every encounter has Alice")
	s.Equal([]string{"Vykas"}, s.searchBosses("hy"), "short terms")
	s.Empty(s.searchBosses("Mallory"))
	s.Empty(s.searchBosses("%"), "wildcards are literal")
}

func (s *Suite) TestListSearchIgnoresNonPlayers() {
	e := NewEncounter("Valtan", 0)
	e.Entities = append(e.Entities, model.Entity{Name: "Guardian Spirit", EntityType: model.EntityTypeNPC})
	s.save(e)

	s.Empty(s.searchBosses("Guardian"))
}

func (s *Suite) TestListSearchFollowsUpdatesAndDeletes() {
	e := s.save(NewEncounter("Valtan", 0))
	s.Require().Len(s.searchBosses("bob"), 1)

	e.Entities[1].Name = "Carol"
	s.save(e)
	s.Empty(s.searchBosses("bob"))
	s.Len(s.searchBosses("carol"), 1)

	s.Require().NoError(s.Storage.DeleteEncounter(s.Ctx, e.ID))
	s.Empty(s.searchBosses("carol"))
}

func (s *Suite) TestListSearchWithOtherFilters() {
	first := s.save(NewEncounter("Valtan", 0))
	s.save(NewEncounter("Valtan", time.Minute))
	s.save(NewEncounter("Vykas", 2*time.Minute))
	s.Require().NoError(s.Storage.SetFavorite(s.Ctx, first.ID, true))

	list, err := s.Storage.ListEncounters(s.Ctx, storage.ListFilter{Search: "valt", FavoritesOnly: true})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(first.ID, list[0].ID)

	list, err = s.Storage.ListEncounters(s.Ctx, storage.ListFilter{Search: "valt", Limit: 1, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(first.ID, list[0].ID)
}

func (s *Suite) TestListPaging() {
	for i := 0; i < 5; i++ {
		s.save(NewEncounter("Valtan", time.Duration(i)*time.Minute))
	}

	all, err := s.Storage.ListEncounters(s.Ctx, storage.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 5)

	page, err := s.Storage.ListEncounters(s.Ctx, storage.ListFilter{Limit: 2, Offset: 1})
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(all[1].ID, page[0].ID)
	s.Equal(all[2].ID, page[1].ID)

	past, err := s.Storage.ListEncounters(s.Ctx, storage.ListFilter{Offset: 10})
	s.Require().NoError(err)
	s.Empty(past)
}

func (s *Suite) TestSetFavorite() {
	e := s.save(NewEncounter("Valtan", 0))
	s.save(NewEncounter("Vykas", time.Minute))

	s.Require().NoError(s.Storage.SetFavorite(s.Ctx, e.ID, true))

	got, err := s.Storage.GetEncounter(s.Ctx, e.ID)
	s.Require().NoError(err)
	s.True(got.Favorite)

	favs, err := s.Storage.ListEncounters(s.Ctx, storage.ListFilter{FavoritesOnly: true})
	s.Require().NoError(err)
	s.Require().Len(favs, 1)
	s.Equal(e.ID, favs[0].ID)

	s.Require().NoError(s.Storage.SetFavorite(s.Ctx, e.ID, false))
	favs, err = s.Storage.ListEncounters(s.Ctx, storage.ListFilter{FavoritesOnly: true})
	s.Require().NoError(err)
	s.Empty(favs)
}

func (s *Suite) TestSetFavoriteNotFound() {
	err := s.Storage.SetFavorite(s.Ctx, 424242, true)
	s.ErrorIs(err, model.ErrEncounterNotFound)
}
