package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/encounterlog/internal/api/request"
	"github.com/mcoot/encounterlog/internal/api/response"
	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/services/encounter"
	"github.com/mcoot/encounterlog/internal/services/roster"
	"github.com/mcoot/encounterlog/internal/storage"
)

// MaxListLimit caps the number of encounters returned by one list request
const MaxListLimit = 100

// EncounterHandler handles encounter endpoints
type EncounterHandler struct {
	encounters *encounter.Service
	rosters    *roster.Service
}

// NewEncounterHandler creates a new encounter handler
func NewEncounterHandler(encounters *encounter.Service, rosters *roster.Service) *EncounterHandler {
	return &EncounterHandler{
		encounters: encounters,
		rosters:    rosters,
	}
}

// Ingest handles POST /api/v1/encounters
func (h *EncounterHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req request.IngestEncounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	e, err := h.encounters.Ingest(r.Context(), req.ToModel())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.EncounterFromModel(e))
}

// List handles GET /api/v1/encounters
func (h *EncounterHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseListFilter(r.URL.Query())
	if err != nil {
		WriteError(w, err)
		return
	}

	encounters, err := h.encounters.List(r.Context(), filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := response.EncounterList{Encounters: make([]response.EncounterPreview, 0, len(encounters))}
	for _, e := range encounters {
		out.Encounters = append(out.Encounters, response.EncounterPreviewFromModel(e))
	}
	response.JSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/encounters/{id}
func (h *EncounterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := EncounterIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	e, err := h.encounters.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EncounterFromModel(e))
}

// Delete handles DELETE /api/v1/encounters/{id}
func (h *EncounterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := EncounterIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.encounters.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// SetFavorite handles PUT /api/v1/encounters/{id}/favorite
func (h *EncounterHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := EncounterIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req request.SetFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.encounters.SetFavorite(r.Context(), id, req.Favorite); err != nil {
		WriteError(w, err)
		return
	}

	e, err := h.encounters.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.EncounterPreviewFromModel(e))
}

// Roster handles GET /api/v1/encounters/{id}/roster
func (h *EncounterHandler) Roster(w http.ResponseWriter, r *http.Request) {
	id, err := EncounterIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	hide, err := ParseOptionalBool(r.URL.Query(), "hide_names")
	if err != nil {
		WriteError(w, err)
		return
	}

	ros, err := h.rosters.Build(r.Context(), id, roster.Options{HideNames: hide})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RosterFromModel(ros))
}

// Skills handles GET /api/v1/encounters/{id}/entities/{name}/skills
func (h *EncounterHandler) Skills(w http.ResponseWriter, r *http.Request) {
	id, err := EncounterIDFromRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	name := mux.Vars(r)["name"]

	skills, err := h.rosters.Skills(r.Context(), id, name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SkillListFromModel(name, skills))
}

// EncounterIDFromRequest parses the {id} route variable
func EncounterIDFromRequest(r *http.Request) (model.EncounterID, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, NewInvalidRequestError("Invalid encounter id")
	}
	return model.EncounterID(id), nil
}

// ParseOptionalBool parses an optional boolean query parameter.
// A missing or empty parameter returns nil.
func ParseOptionalBool(q url.Values, key string) (*bool, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, NewInvalidRequestError("Invalid value for " + key)
	}
	return &v, nil
}

// ParseListFilter reads encounter list parameters from a query string
func ParseListFilter(q url.Values) (storage.ListFilter, error) {
	filter := storage.ListFilter{
		Boss:   q.Get("boss"),
		Search: strings.TrimSpace(q.Get("q")),
		Limit:  MaxListLimit,
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, NewInvalidRequestError("Invalid limit")
		}
		if limit > 0 && limit < MaxListLimit {
			filter.Limit = limit
		}
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return filter, NewInvalidRequestError("Invalid offset")
		}
		filter.Offset = offset
	}

	favorites, err := ParseOptionalBool(q, "favorites")
	if err != nil {
		return filter, err
	}
	filter.FavoritesOnly = favorites != nil && *favorites

	return filter, nil
}
