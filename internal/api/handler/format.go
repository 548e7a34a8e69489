package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/encounterlog/internal/api/request"
	"github.com/mcoot/encounterlog/internal/api/response"
	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/services/roster"
)

// FormatHandler exposes the display helpers
type FormatHandler struct {
	rosters *roster.Service
}

// NewFormatHandler creates a new format handler
func NewFormatHandler(rosters *roster.Service) *FormatHandler {
	return &FormatHandler{rosters: rosters}
}

// Name handles POST /api/v1/format/name
func (h *FormatHandler) Name(w http.ResponseWriter, r *http.Request) {
	var req request.FormatNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	e := &model.Entity{
		Name:       req.Name,
		EntityType: model.EntityTypePlayer,
		Class:      req.Class,
		IsDead:     req.IsDead,
	}
	response.JSON(w, http.StatusOK, response.FormatNameResponse{
		DisplayName: h.rosters.FormatName(e, req.HideNames),
	})
}

// Text handles POST /api/v1/format/text
func (h *FormatHandler) Text(w http.ResponseWriter, r *http.Request) {
	var req request.FormatTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.Length() < 0 {
		WriteError(w, NewInvalidRequestError("max_length must not be negative"))
		return
	}

	response.JSON(w, http.StatusOK, response.FormatTextResponse{
		Text: h.rosters.FormatText(req.Text, req.Length(), req.Sanitize),
	})
}
