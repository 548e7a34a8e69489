package encounter

import (
	"context"
	"io"
	"log/slog"

	"github.com/mcoot/encounterlog/internal/dependencies/clock"
	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/storage"
)

// Notifier is told about every change to stored encounters
type Notifier interface {
	Notify(ctx context.Context, event model.Event)
}

// Service manages the encounter log
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	notifier Notifier
	logger   *slog.Logger
}

// New creates a new encounter Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "encounter-service")),
	}
}

// SetNotifier sets the notifier for encounter changes. The notifier is created
// after the service in the factory, so it cannot be a constructor argument.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Ingest validates and stores a recorded encounter
func (s *Service) Ingest(ctx context.Context, e *model.Encounter) (*model.Encounter, error) {
	if err := e.Validate(); err != nil {
		s.logger.Warn("rejected encounter",
			slog.String("boss", e.CurrentBoss),
			slog.Any("error", err))
		return nil, err
	}

	if e.FightStart.IsZero() {
		e.FightStart = s.clock.Now()
	}
	e.UpdateDamageTotals()

	if err := s.storage.SaveEncounter(ctx, e); err != nil {
		s.logger.Error("failed to save encounter",
			slog.String("boss", e.CurrentBoss),
			slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("encounter ingested",
		slog.Int64("encounter_id", int64(e.ID)),
		slog.String("boss", e.CurrentBoss),
		slog.Int("players", len(e.Players())))

	s.notify(ctx, model.EventEncounterSaved, e.ID)
	return e, nil
}

// Get returns a stored encounter
func (s *Service) Get(ctx context.Context, id model.EncounterID) (*model.Encounter, error) {
	return s.storage.GetEncounter(ctx, id)
}

// List returns stored encounters, newest first
func (s *Service) List(ctx context.Context, filter storage.ListFilter) ([]*model.Encounter, error) {
	return s.storage.ListEncounters(ctx, filter)
}

// Delete removes an encounter. Unknown IDs return ErrEncounterNotFound.
func (s *Service) Delete(ctx context.Context, id model.EncounterID) error {
	if _, err := s.storage.GetEncounter(ctx, id); err != nil {
		return err
	}
	if err := s.storage.DeleteEncounter(ctx, id); err != nil {
		s.logger.Error("failed to delete encounter",
			slog.Int64("encounter_id", int64(id)),
			slog.Any("error", err))
		return err
	}

	s.logger.Info("encounter deleted", slog.Int64("encounter_id", int64(id)))
	s.notify(ctx, model.EventEncounterDeleted, id)
	return nil
}

// SetFavorite marks or unmarks an encounter as a favorite
func (s *Service) SetFavorite(ctx context.Context, id model.EncounterID, favorite bool) error {
	if err := s.storage.SetFavorite(ctx, id, favorite); err != nil {
		return err
	}
	s.notify(ctx, model.EventFavoriteChanged, id)
	return nil
}

func (s *Service) notify(ctx context.Context, t model.EventType, id model.EncounterID) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, model.Event{
		Type:        t,
		Timestamp:   s.clock.Now(),
		EncounterID: id,
	})
}
