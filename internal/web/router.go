package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/encounterlog/internal/services/encounter"
	"github.com/mcoot/encounterlog/internal/services/roster"
	"github.com/mcoot/encounterlog/internal/web/handler"
	"github.com/mcoot/encounterlog/internal/web/middleware"
	"github.com/mcoot/encounterlog/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger           *slog.Logger
	EncounterService *encounter.Service
	RosterService    *roster.Service
	HubManager       *sse.HubManager
	StaticDir        string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	RegisterRoutes(r, cfg)
	return r
}

// RegisterRoutes mounts the web pages on an existing router
func RegisterRoutes(r *mux.Router, cfg RouterConfig) {
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler(cfg.EncounterService)
	encounterHandler := handler.NewEncounterHandler(cfg.EncounterService, cfg.RosterService, hubManager)

	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// SSE streams skip the flash middleware so they never consume a flash cookie
	events := r.NewRoute().Subrouter()
	events.Use(middleware.Recovery(cfg.Logger))
	events.HandleFunc("/events", encounterHandler.ListEvents).Methods(http.MethodGet)
	events.HandleFunc("/encounters/{id:[0-9]+}/events", encounterHandler.Events).Methods(http.MethodGet)

	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Recovery(cfg.Logger))
	pages.Use(middleware.Logging(cfg.Logger))
	pages.Use(middleware.Flash())
	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/encounters/{id:[0-9]+}", encounterHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/encounters/{id:[0-9]+}/players/{slot:[0-9]+}", encounterHandler.Player).Methods(http.MethodGet)
	pages.HandleFunc("/encounters/{id:[0-9]+}/favorite", encounterHandler.ToggleFavorite).Methods(http.MethodPost)
}
