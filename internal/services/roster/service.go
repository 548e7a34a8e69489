// Package roster builds the display view of an encounter's players.
package roster

import (
	"cmp"
	"context"
	"io"
	"log/slog"
	"math"
	"slices"

	"github.com/mcoot/encounterlog/internal/display"
	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/storage"
)

// Config holds the server-wide display defaults
type Config struct {
	// HideNames replaces other players' names with their class
	HideNames bool
	// NameLength is the width ShortName is truncated to
	NameLength int
}

// DefaultConfig returns the default display configuration
func DefaultConfig() Config {
	return Config{
		HideNames:  false,
		NameLength: display.DefaultTruncateLength,
	}
}

// Options are per-request overrides of Config
type Options struct {
	HideNames *bool
}

// Service renders encounters for display
type Service struct {
	storage storage.Storage
	config  Config
	logger  *slog.Logger
}

// New creates a new roster Service
func New(storage storage.Storage, config Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if config.NameLength <= 0 {
		config.NameLength = display.DefaultTruncateLength
	}
	return &Service{
		storage: storage,
		config:  config,
		logger:  logger.With(slog.String("component", "roster-service")),
	}
}

// Config returns the service's display defaults
func (s *Service) Config() Config {
	return s.config
}

// Build loads an encounter and returns its player roster, highest damage first
func (s *Service) Build(ctx context.Context, id model.EncounterID, opts Options) (*model.Roster, error) {
	e, err := s.storage.GetEncounter(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.FromEncounter(e, opts), nil
}

// HideNames resolves the hide choice of a request against the server default
func (s *Service) HideNames(opts Options) bool {
	if opts.HideNames != nil {
		return *opts.HideNames
	}
	return s.config.HideNames
}

// PlayerName returns the display name of a player in e. The local player is never hidden.
func (s *Service) PlayerName(e *model.Encounter, p *model.Entity, opts Options) string {
	return display.FormatPlayerName(p, s.HideNames(opts) && !isLocal(e, p))
}

func isLocal(e *model.Encounter, p *model.Entity) bool {
	return p != nil && e.LocalPlayer != "" && p.Name == e.LocalPlayer
}

// FromEncounter builds the roster of an already loaded encounter
func (s *Service) FromEncounter(e *model.Encounter, opts Options) *model.Roster {
	players := e.Players()
	var total int64
	for _, p := range players {
		total += p.DamageDealt
	}

	rows := make([]model.RosterRow, 0, len(players))
	for slot := range e.Entities {
		p := e.PlayerAt(slot)
		if p == nil {
			continue
		}
		name := s.PlayerName(e, p, opts)
		rows = append(rows, model.RosterRow{
			Slot:        slot,
			Name:        p.Name,
			DisplayName: name,
			ShortName:   display.TruncateString(name, s.config.NameLength),
			Class:       p.Class,
			GearScore:   p.GearScore,
			DamageDealt: p.DamageDealt,
			Dps:         p.Dps,
			DamageShare: share(p.DamageDealt, total),
			IsDead:      p.IsDead,
			IsLocal:     isLocal(e, p),
		})
	}

	slices.SortStableFunc(rows, func(a, b model.RosterRow) int {
		return cmp.Compare(b.DamageDealt, a.DamageDealt)
	})

	return &model.Roster{
		EncounterID: e.ID,
		CurrentBoss: e.CurrentBoss,
		Difficulty:  e.Difficulty,
		Cleared:     e.Cleared,
		HideNames:   s.HideNames(opts),
		Rows:        rows,
	}
}

// Skills returns an entity's skills, highest damage first, with tooltips cleaned for display
func (s *Service) Skills(ctx context.Context, id model.EncounterID, name string) ([]model.SkillView, error) {
	e, err := s.storage.GetEncounter(ctx, id)
	if err != nil {
		return nil, err
	}

	ent := e.Entity(name)
	if ent == nil {
		return nil, model.ErrEntityNotFound
	}
	return s.EntitySkills(ent), nil
}

// EntitySkills returns the skills of an already loaded entity, highest damage first
func (s *Service) EntitySkills(ent *model.Entity) []model.SkillView {
	var total int64
	for _, sk := range ent.Skills {
		total += sk.TotalDamage
	}

	views := make([]model.SkillView, 0, len(ent.Skills))
	for _, sk := range ent.Skills {
		views = append(views, model.SkillView{
			ID:          sk.ID,
			Name:        sk.Name,
			Icon:        sk.Icon,
			Description: display.RemoveUnknownHTMLTags(sk.Tooltip),
			TotalDamage: sk.TotalDamage,
			Casts:       sk.Casts,
			DamageShare: share(sk.TotalDamage, total),
		})
	}

	slices.SortStableFunc(views, func(a, b model.SkillView) int {
		return cmp.Compare(b.TotalDamage, a.TotalDamage)
	})
	return views
}

// FormatName formats a single entity's name
func (s *Service) FormatName(e *model.Entity, hideNames bool) string {
	return display.FormatPlayerName(e, hideNames)
}

// FormatText optionally strips unknown pseudo-tags from text and then truncates it to length
func (s *Service) FormatText(text string, length int, sanitize bool) string {
	if sanitize {
		text = display.RemoveUnknownHTMLTags(text)
	}
	return display.TruncateString(text, length)
}

// share returns part as a percentage of total, rounded to one decimal place
func share(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}
