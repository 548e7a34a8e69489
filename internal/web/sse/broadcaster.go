package sse

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/services/roster"
	"github.com/mcoot/encounterlog/internal/storage"
	"github.com/mcoot/encounterlog/internal/web/templates/components"
)

// SSE event names sent to browsers
const (
	EventEncounterSaved   = "encounter-saved"
	EventEncounterDeleted = "encounter-deleted"
	EventFavoriteChanged  = "favorite-changed"
	EventRosterUpdate     = "roster-update"
)

// rosterView is one roster stream of an encounter and the options it is rendered with
type rosterView struct {
	topic Topic
	opts  roster.Options
}

func rosterViews(id model.EncounterID) []rosterView {
	hidden, shown := true, false
	views := make([]rosterView, 0, 3)
	for _, hide := range []*bool{nil, &hidden, &shown} {
		views = append(views, rosterView{
			topic: EncounterViewTopic(id, hide),
			opts:  roster.Options{HideNames: hide},
		})
	}
	return views
}

// Broadcaster turns encounter changes into SSE events
type Broadcaster struct {
	hubManager *HubManager
	storage    storage.Storage
	rosters    *roster.Service
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, storage storage.Storage, rosters *roster.Service, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		storage:    storage,
		rosters:    rosters,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Notify publishes an encounter change to subscribed clients
func (b *Broadcaster) Notify(ctx context.Context, event model.Event) {
	switch event.Type {
	case model.EventEncounterSaved:
		b.broadcastSaved(ctx, event.EncounterID)
	case model.EventFavoriteChanged:
		b.broadcastFavorite(ctx, event.EncounterID)
	case model.EventEncounterDeleted:
		b.broadcastDeleted(event.EncounterID)
	}
}

func (b *Broadcaster) broadcastSaved(ctx context.Context, id model.EncounterID) {
	listHub := b.hubManager.GetHub(EncountersTopic)
	rosterHubs := make(map[*Hub]roster.Options)
	for _, v := range rosterViews(id) {
		if hub := b.hubManager.GetHub(v.topic); hub != nil {
			rosterHubs[hub] = v.opts
		}
	}
	if listHub == nil && len(rosterHubs) == 0 {
		return
	}

	e, ok := b.load(ctx, id)
	if !ok {
		return
	}

	if listHub != nil {
		html, err := b.renderer.RenderEncounterRow(ctx, e)
		if err != nil {
			b.logRenderError("encounter row", id, err)
		} else {
			listHub.BroadcastEvent(EventEncounterSaved, html)
		}
	}

	for hub, opts := range rosterHubs {
		html, err := b.renderer.RenderRoster(ctx, b.rosters.FromEncounter(e, opts))
		if err != nil {
			b.logRenderError("roster", id, err)
			continue
		}
		hub.BroadcastEvent(EventRosterUpdate, html)
	}
}

func (b *Broadcaster) broadcastFavorite(ctx context.Context, id model.EncounterID) {
	hub := b.hubManager.GetHub(EncountersTopic)
	if hub == nil {
		return
	}

	e, ok := b.load(ctx, id)
	if !ok {
		return
	}

	html, err := b.renderer.RenderEncounterRow(ctx, e)
	if err != nil {
		b.logRenderError("encounter row", id, err)
		return
	}
	hub.BroadcastEvent(EventFavoriteChanged, html)
}

func (b *Broadcaster) broadcastDeleted(id model.EncounterID) {
	if hub := b.hubManager.GetHub(EncountersTopic); hub != nil {
		hub.BroadcastEvent(EventEncounterDeleted, components.EncounterRowID(id))
	}
	for _, v := range rosterViews(id) {
		if hub := b.hubManager.GetHub(v.topic); hub != nil {
			hub.BroadcastEvent(EventEncounterDeleted, strconv.FormatInt(int64(id), 10))
		}
	}
}

func (b *Broadcaster) load(ctx context.Context, id model.EncounterID) (*model.Encounter, bool) {
	e, err := b.storage.GetEncounter(ctx, id)
	if err != nil {
		b.logger.Error("sse failed to load encounter",
			slog.Int64("encounter_id", int64(id)),
			slog.Any("error", err))
		return nil, false
	}
	return e, true
}

func (b *Broadcaster) logRenderError(what string, id model.EncounterID, err error) {
	b.logger.Error("sse failed to render "+what,
		slog.Int64("encounter_id", int64(id)),
		slog.Any("error", err))
}
