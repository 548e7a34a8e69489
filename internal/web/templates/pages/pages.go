// Package pages holds the full web pages.
package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/encounterlog/internal/display"
	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/web/templates/components"
	"github.com/mcoot/encounterlog/internal/web/templates/layout"
)

// HomeData is the data for the encounter list page
type HomeData struct {
	layout.PageData
	Encounters []*model.Encounter
	Boss       string
	Search     string
	Favorites  bool
}

// EncounterData is the data for a single encounter page
type EncounterData struct {
	layout.PageData
	Encounter *model.Encounter
	Roster    *model.Roster
}

// PlayerData is the data for a player's skill breakdown page
type PlayerData struct {
	layout.PageData
	Encounter   *model.Encounter
	Entity      *model.Entity
	DisplayName string
	Skills      []model.SkillView
}

// ErrorData is the data for the error page
type ErrorData struct {
	layout.PageData
	Status  int
	Message string
}

func write(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

// Home renders the encounter list
func Home(data HomeData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		favChecked := ""
		if data.Favorites {
			favChecked = " checked"
		}
		if err := write(w, `<h1>Encounters</h1>`+
			`<form class="filters" method="get" action="/">`+
			`<input type="search" name="q" placeholder="Boss or player" value="`+templ.EscapeString(data.Search)+`">`+
			`<input type="text" name="boss" placeholder="Boss" value="`+templ.EscapeString(data.Boss)+`">`+
			`<label><input type="checkbox" name="favorites" value="true"`+favChecked+`> Favorites only</label>`+
			`<button type="submit">Filter</button></form>`); err != nil {
			return err
		}
		return components.EncounterTable(data.Encounters).Render(ctx, w)
	})
	return layout.Base(data.PageData, body)
}

// Encounter renders the roster of one encounter
func Encounter(data EncounterData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := data.Encounter
		path := components.EncounterPath(e.ID)

		status := "Wipe"
		if e.Cleared {
			status = "Cleared"
		}
		toggle, hideParam := "Hide names", "true"
		if data.Roster.HideNames {
			toggle, hideParam = "Show names", "false"
		}

		if err := write(w, `<h1 class="boss">`+templ.EscapeString(e.CurrentBoss)+`</h1>`+
			`<p class="summary"><span class="difficulty">`+templ.EscapeString(e.Difficulty)+`</span> `+
			`<span class="status">`+status+`</span> `+
			`<span class="duration">`+display.FormatDuration(e.Duration)+`</span> `+
			`<span class="total-damage">`+display.FormatNumber(e.TotalDamageDealt)+`</span></p>`+
			`<p class="actions"><a class="toggle-names" href="`+components.Href(path+"?hide_names="+hideParam)+`">`+toggle+`</a> `+
			`<form class="favorite" method="post" action="`+components.Href(path+"/favorite")+`">`+
			`<input type="hidden" name="next" value="`+templ.EscapeString(path)+`">`+
			`<button type="submit">`+favoriteLabel(e.Favorite)+`</button></form></p>`+
			`<div id="roster-container" sse-swap="roster-update" hx-swap="innerHTML">`); err != nil {
			return err
		}
		if err := components.RosterTable(data.Roster).Render(ctx, w); err != nil {
			return err
		}
		return write(w, `</div>`)
	})
	return layout.Base(data.PageData, body)
}

// Player renders a player's skill breakdown
func Player(data PlayerData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		e := data.Encounter
		if err := write(w, `<p class="back"><a href="`+components.Href(components.EncounterPath(e.ID))+`">`+
			templ.EscapeString(e.CurrentBoss)+`</a></p>`+
			`<h1 class="player-name">`+templ.EscapeString(data.DisplayName)+`</h1>`+
			`<p class="summary"><span class="class">`+templ.EscapeString(data.Entity.Class)+`</span> `+
			`<span class="damage">`+display.FormatNumber(data.Entity.DamageDealt)+`</span></p>`); err != nil {
			return err
		}
		if len(data.Skills) == 0 {
			return write(w, `<p class="empty">No skills recorded.</p>`)
		}
		return components.SkillTable(data.Skills).Render(ctx, w)
	})
	return layout.Base(data.PageData, body)
}

// Error renders an error page
func Error(data ErrorData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return write(w, `<h1>Error `+strconv.Itoa(data.Status)+`</h1>`+
			`<p class="error-message">`+templ.EscapeString(data.Message)+`</p>`+
			`<p><a href="/">Back to encounters</a></p>`)
	})
	return layout.Base(data.PageData, body)
}

func favoriteLabel(favorite bool) string {
	if favorite {
		return "★ Favorite"
	}
	return "☆ Favorite"
}

// EventsURL returns the SSE endpoint for a page, or the list endpoint for id 0
func EventsURL(id model.EncounterID) string {
	if id == 0 {
		return "/events"
	}
	return components.EncounterPath(id) + "/events"
}

// EncounterEventsURL returns the roster stream of an encounter. An explicit
// hide choice selects the stream rendered with that choice.
func EncounterEventsURL(id model.EncounterID, hideNames *bool) string {
	u := EventsURL(id)
	if hideNames != nil {
		u += "?hide_names=" + strconv.FormatBool(*hideNames)
	}
	return u
}
