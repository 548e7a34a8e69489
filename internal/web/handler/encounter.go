package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/services/encounter"
	"github.com/mcoot/encounterlog/internal/services/roster"
	"github.com/mcoot/encounterlog/internal/web/middleware"
	"github.com/mcoot/encounterlog/internal/web/sse"
	"github.com/mcoot/encounterlog/internal/web/templates/components"
	"github.com/mcoot/encounterlog/internal/web/templates/layout"
	"github.com/mcoot/encounterlog/internal/web/templates/pages"
)

// EncounterHandler handles encounter pages, actions and event streams
type EncounterHandler struct {
	encounters *encounter.Service
	rosters    *roster.Service
	hubManager *sse.HubManager
}

// NewEncounterHandler creates a new EncounterHandler
func NewEncounterHandler(encounters *encounter.Service, rosters *roster.Service, hubManager *sse.HubManager) *EncounterHandler {
	return &EncounterHandler{
		encounters: encounters,
		rosters:    rosters,
		hubManager: hubManager,
	}
}

// View renders an encounter's roster
func (h *EncounterHandler) View(w http.ResponseWriter, r *http.Request) {
	id, err := encounterID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	e, err := h.encounters.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	opts := rosterOptions(r)
	data := pages.EncounterData{
		PageData: layout.PageData{
			Title:     e.CurrentBoss,
			Flash:     middleware.GetFlash(r.Context()),
			EventsURL: pages.EncounterEventsURL(e.ID, opts.HideNames),
		},
		Encounter: e,
		Roster:    h.rosters.FromEncounter(e, opts),
	}
	render(w, r, http.StatusOK, pages.Encounter(data))
}

// Player renders a player's skill breakdown
func (h *EncounterHandler) Player(w http.ResponseWriter, r *http.Request) {
	id, err := encounterID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}
	slot, err := strconv.Atoi(mux.Vars(r)["slot"])
	if err != nil {
		renderError(w, r, model.ErrEntityNotFound)
		return
	}

	e, err := h.encounters.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	ent := e.PlayerAt(slot)
	if ent == nil {
		renderError(w, r, model.ErrEntityNotFound)
		return
	}

	data := pages.PlayerData{
		PageData: layout.PageData{
			Title: e.CurrentBoss,
			Flash: middleware.GetFlash(r.Context()),
		},
		Encounter:   e,
		Entity:      ent,
		DisplayName: h.rosters.PlayerName(e, ent, rosterOptions(r)),
		Skills:      h.rosters.EntitySkills(ent),
	}
	render(w, r, http.StatusOK, pages.Player(data))
}

// ToggleFavorite flips an encounter's favorite flag and redirects back
func (h *EncounterHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := encounterID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	e, err := h.encounters.Get(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.encounters.SetFavorite(r.Context(), id, !e.Favorite); err != nil {
		middleware.SetFlash(w, "error", "Could not update favorite")
	} else if e.Favorite {
		middleware.SetFlash(w, "success", "Removed from favorites")
	} else {
		middleware.SetFlash(w, "success", "Added to favorites")
	}

	target := "/"
	if next := r.FormValue("next"); next == components.EncounterPath(id) {
		target = next
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// ListEvents streams changes to the encounter list
func (h *EncounterHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(sse.EncountersTopic))
}

// Events streams roster updates for one encounter
func (h *EncounterHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, err := encounterID(r)
	if err != nil {
		http.Error(w, "Invalid encounter id", http.StatusBadRequest)
		return
	}
	if _, err := h.encounters.Get(r.Context(), id); err != nil {
		http.Error(w, "Encounter not found", http.StatusNotFound)
		return
	}
	topic := sse.EncounterViewTopic(id, rosterOptions(r).HideNames)
	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(topic))
}

// rosterOptions reads the viewer's hide_names choice. Anything but a valid bool follows the server default.
func rosterOptions(r *http.Request) roster.Options {
	var opts roster.Options
	if hide, err := strconv.ParseBool(r.URL.Query().Get("hide_names")); err == nil {
		opts.HideNames = &hide
	}
	return opts
}
