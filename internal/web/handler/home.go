package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mcoot/encounterlog/internal/services/encounter"
	"github.com/mcoot/encounterlog/internal/storage"
	"github.com/mcoot/encounterlog/internal/web/middleware"
	"github.com/mcoot/encounterlog/internal/web/templates/layout"
	"github.com/mcoot/encounterlog/internal/web/templates/pages"
)

// HomePageSize is the number of encounters listed on the home page
const HomePageSize = 50

// HomeHandler handles the encounter list page
type HomeHandler struct {
	encounters *encounter.Service
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(encounters *encounter.Service) *HomeHandler {
	return &HomeHandler{encounters: encounters}
}

// Home renders the encounter list
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	favorites, _ := strconv.ParseBool(q.Get("favorites"))
	filter := storage.ListFilter{
		Boss:          q.Get("boss"),
		Search:        strings.TrimSpace(q.Get("q")),
		FavoritesOnly: favorites,
		Limit:         HomePageSize,
	}

	list, err := h.encounters.List(r.Context(), filter)
	if err != nil {
		renderError(w, r, err)
		return
	}

	data := pages.HomeData{
		PageData: layout.PageData{
			Title:     "Encounters",
			Flash:     middleware.GetFlash(r.Context()),
			EventsURL: pages.EventsURL(0),
		},
		Encounters: list,
		Boss:       filter.Boss,
		Search:     filter.Search,
		Favorites:  favorites,
	}
	render(w, r, http.StatusOK, pages.Home(data))
}
