package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/encounterlog/internal/api/handler"
	"github.com/mcoot/encounterlog/internal/api/middleware"
	"github.com/mcoot/encounterlog/internal/api/response"
	"github.com/mcoot/encounterlog/internal/services/encounter"
	"github.com/mcoot/encounterlog/internal/services/roster"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	EncounterService *encounter.Service
	RosterService    *roster.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	RegisterRoutes(r, cfg)
	return r
}

// RegisterRoutes mounts the API under /api/v1 on an existing router
func RegisterRoutes(r *mux.Router, cfg RouterConfig) {
	encounterHandler := handler.NewEncounterHandler(cfg.EncounterService, cfg.RosterService)
	formatHandler := handler.NewFormatHandler(cfg.RosterService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	encounters := api.PathPrefix("/encounters").Subrouter()
	encounters.HandleFunc("", encounterHandler.Ingest).Methods(http.MethodPost)
	encounters.HandleFunc("", encounterHandler.List).Methods(http.MethodGet)
	encounters.HandleFunc("/{id:[0-9]+}", encounterHandler.Get).Methods(http.MethodGet)
	encounters.HandleFunc("/{id:[0-9]+}", encounterHandler.Delete).Methods(http.MethodDelete)
	encounters.HandleFunc("/{id:[0-9]+}/favorite", encounterHandler.SetFavorite).Methods(http.MethodPut)
	encounters.HandleFunc("/{id:[0-9]+}/roster", encounterHandler.Roster).Methods(http.MethodGet)
	encounters.HandleFunc("/{id:[0-9]+}/entities/{name}/skills", encounterHandler.Skills).Methods(http.MethodGet)

	format := api.PathPrefix("/format").Subrouter()
	format.HandleFunc("/name", formatHandler.Name).Methods(http.MethodPost)
	format.HandleFunc("/text", formatHandler.Text).Methods(http.MethodPost)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
