package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/web/middleware"
	"github.com/mcoot/encounterlog/internal/web/templates/layout"
	"github.com/mcoot/encounterlog/internal/web/templates/pages"
)

// render writes a page with the given status
func render(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(r.Context(), w); err != nil {
		slog.Default().Error("failed to render page",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
}

// renderError writes an error page for err
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := http.StatusInternalServerError, "Something went wrong."
	switch {
	case errors.Is(err, model.ErrEncounterNotFound):
		status, message = http.StatusNotFound, "Encounter not found."
	case errors.Is(err, model.ErrEntityNotFound):
		status, message = http.StatusNotFound, "Player not found in this encounter."
	case errors.Is(err, errBadEncounterID):
		status, message = http.StatusBadRequest, "Invalid encounter id."
	}

	render(w, r, status, pages.Error(pages.ErrorData{
		PageData: layout.PageData{
			Title: "Error",
			Flash: middleware.GetFlash(r.Context()),
		},
		Status:  status,
		Message: message,
	}))
}

var errBadEncounterID = errors.New("invalid encounter id")

func encounterID(r *http.Request) (model.EncounterID, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadEncounterID
	}
	return model.EncounterID(id), nil
}
