package roster

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/storage/memory"
	"github.com/mcoot/encounterlog/internal/storage/storagetest"
	"github.com/mcoot/encounterlog/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) saveEncounter(e *model.Encounter) model.EncounterID {
	s.Require().NoError(s.storage.SaveEncounter(s.ctx, e))
	return e.ID
}

func boolPtr(b bool) *bool {
	return &b
}

// Build tests

func (s *ServiceSuite) TestBuildOnlyIncludesPlayers() {
	id := s.saveEncounter(storagetest.NewEncounter("Valtan", 0))

	roster, err := s.service.Build(s.ctx, id, Options{})
	s.Require().NoError(err)

	s.Equal(id, roster.EncounterID)
	s.Equal("Valtan", roster.CurrentBoss)
	s.Require().Len(roster.Rows, 2)
	s.Equal("Alice", roster.Rows[0].Name)
	s.Equal("bob", roster.Rows[1].Name)
}

func (s *ServiceSuite) TestBuildSortsByDamage() {
	e := storagetest.NewEncounter("Valtan", 0)
	e.Entities[1].DamageDealt = 5_000_000
	id := s.saveEncounter(e)

	roster, err := s.service.Build(s.ctx, id, Options{})
	s.Require().NoError(err)
	s.Equal("bob", roster.Rows[0].Name)
	s.Equal("Alice", roster.Rows[1].Name)
}

func (s *ServiceSuite) TestBuildDisplayNames() {
	id := s.saveEncounter(storagetest.NewEncounter("Valtan", 0))

	roster, err := s.service.Build(s.ctx, id, Options{})
	s.Require().NoError(err)

	alice := roster.Rows[0]
	s.Equal("Alice", alice.DisplayName)
	s.True(alice.IsLocal)
	s.False(alice.IsDead)

	// lowercase names are not valid player names, so the class is shown
	bob := roster.Rows[1]
	s.Equal("💀 Bard", bob.DisplayName)
	s.True(bob.IsDead)
	s.False(bob.IsLocal)
}

func (s *ServiceSuite) TestBuildHideNamesKeepsLocalPlayer() {
	e := storagetest.NewEncounter("Valtan", 0)
	e.Entities[1].Name = "Bob"
	id := s.saveEncounter(e)

	roster, err := s.service.Build(s.ctx, id, Options{HideNames: boolPtr(true)})
	s.Require().NoError(err)

	s.True(roster.HideNames)
	s.Equal("Alice", roster.Rows[0].DisplayName)
	s.Equal("💀 Bard", roster.Rows[1].DisplayName)
}

func (s *ServiceSuite) TestBuildUsesConfigDefault() {
	e := storagetest.NewEncounter("Valtan", 0)
	e.Entities[1].Name = "Bob"
	id := s.saveEncounter(e)

	svc := New(s.storage, Config{HideNames: true}, nil)

	roster, err := svc.Build(s.ctx, id, Options{})
	s.Require().NoError(err)
	s.Equal("💀 Bard", roster.Rows[1].DisplayName)

	roster, err = svc.Build(s.ctx, id, Options{HideNames: boolPtr(false)})
	s.Require().NoError(err)
	s.Equal("💀 Bob", roster.Rows[1].DisplayName)
}

func (s *ServiceSuite) TestBuildShortNames() {
	e := storagetest.NewEncounter("Valtan", 0)
	e.Entities[0].Name = "Abcdefghijklmno"
	e.LocalPlayer = e.Entities[0].Name
	id := s.saveEncounter(e)

	roster, err := s.service.Build(s.ctx, id, Options{})
	s.Require().NoError(err)
	s.Equal("Abcdefghijklmno", roster.Rows[0].DisplayName)
	s.Equal("Abcdefghij...", roster.Rows[0].ShortName)
}

func (s *ServiceSuite) TestBuildDamageShare() {
	id := s.saveEncounter(storagetest.NewEncounter("Valtan", 0))

	roster, err := s.service.Build(s.ctx, id, Options{})
	s.Require().NoError(err)
	s.InDelta(83.3, roster.Rows[0].DamageShare, 0.001)
	s.InDelta(16.7, roster.Rows[1].DamageShare, 0.001)
}

func (s *ServiceSuite) TestBuildRecordsSlots() {
	e := storagetest.NewEncounter("Valtan", 0)
	e.Entities[0], e.Entities[2] = e.Entities[2], e.Entities[0]
	id := s.saveEncounter(e)

	roster, err := s.service.Build(s.ctx, id, Options{})
	s.Require().NoError(err)
	s.Require().Len(roster.Rows, 2)
	s.Equal("Alice", roster.Rows[0].Name)
	s.Equal(2, roster.Rows[0].Slot)
	s.Equal(1, roster.Rows[1].Slot)
}

func (s *ServiceSuite) TestPlayerName() {
	e := storagetest.NewEncounter("Valtan", 0)
	e.Entities[1].Name = "Bob"

	s.Equal("💀 Bob", s.service.PlayerName(e, &e.Entities[1], Options{}))
	s.Equal("💀 Bard", s.service.PlayerName(e, &e.Entities[1], Options{HideNames: boolPtr(true)}))
	s.Equal("Alice", s.service.PlayerName(e, &e.Entities[0], Options{HideNames: boolPtr(true)}))
	s.Equal("", s.service.PlayerName(e, nil, Options{}))
}

func (s *ServiceSuite) TestEntitySkills() {
	e := storagetest.NewEncounter("Valtan", 0)

	skills := s.service.EntitySkills(&e.Entities[0])
	s.Require().Len(skills, 2)
	s.Equal("Red Dust", skills[0].Name)
	s.Equal("Deals ?? damage", skills[0].Description)
	s.Empty(s.service.EntitySkills(&e.Entities[1]))
}

func (s *ServiceSuite) TestBuildUnknownEncounter() {
	_, err := s.service.Build(s.ctx, 99, Options{})
	s.ErrorIs(err, model.ErrEncounterNotFound)
}

// Skills tests

func (s *ServiceSuite) TestSkillsSanitizesTooltips() {
	id := s.saveEncounter(storagetest.NewEncounter("Valtan", 0))

	skills, err := s.service.Skills(s.ctx, id, "Alice")
	s.Require().NoError(err)
	s.Require().Len(skills, 2)
	s.Equal("Red Dust", skills[0].Name)
	s.Equal("Deals ?? damage", skills[0].Description)
	s.InDelta(60.0, skills[0].DamageShare, 0.001)
	s.Equal("Hell Blade", skills[1].Name)
}

func (s *ServiceSuite) TestSkillsEntityWithoutSkills() {
	id := s.saveEncounter(storagetest.NewEncounter("Valtan", 0))

	skills, err := s.service.Skills(s.ctx, id, "bob")
	s.Require().NoError(err)
	s.Empty(skills)
}

func (s *ServiceSuite) TestSkillsUnknownEntity() {
	id := s.saveEncounter(storagetest.NewEncounter("Valtan", 0))

	_, err := s.service.Skills(s.ctx, id, "Mallory")
	s.ErrorIs(err, model.ErrEntityNotFound)
}

func (s *ServiceSuite) TestSkillsUnknownEncounter() {
	_, err := s.service.Skills(s.ctx, 99, "Alice")
	s.ErrorIs(err, model.ErrEncounterNotFound)
}

func TestFormatText(t *testing.T) {
	svc := New(memory.New(), DefaultConfig(), nil)

	tests := []struct {
		name     string
		text     string
		length   int
		sanitize bool
		want     string
	}{
		{"plain", "hello", 10, false, "hello"},
		{"truncate", "hello world", 5, false, "hello..."},
		{"zero length", "hello", 0, false, "..."},
		{"zero length empty", "", 0, false, ""},
		{"sanitize", "a <$CALC x/> b", 10, true, "a ?? b"},
		{"sanitize then truncate", "<$CALC x/>abcdef", 4, true, "??ab..."},
		{"keeps tags without sanitize", "<$CALC/>", 10, false, "<$CALC/>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.FormatText(tt.text, tt.length, tt.sanitize))
		})
	}
}

func TestFormatName(t *testing.T) {
	svc := New(memory.New(), DefaultConfig(), nil)

	assert.Equal(t, "Alice", svc.FormatName(&model.Entity{Name: "Alice", Class: "Bard"}, false))
	assert.Equal(t, "Bard", svc.FormatName(&model.Entity{Name: "Alice", Class: "Bard"}, true))
	assert.Equal(t, "", svc.FormatName(nil, false))
}
