// Package components holds HTML fragments shared by pages and SSE updates.
package components

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/encounterlog/internal/display"
	"github.com/mcoot/encounterlog/internal/model"
)

// Element IDs targeted by SSE swaps
const (
	EncounterListID = "encounter-list"
	RosterID        = "roster"
)

// EncounterRowID returns the element ID of an encounter's list row
func EncounterRowID(id model.EncounterID) string {
	return "encounter-" + strconv.FormatInt(int64(id), 10)
}

// EncounterPath returns the page URL of an encounter
func EncounterPath(id model.EncounterID) string {
	return "/encounters/" + strconv.FormatInt(int64(id), 10)
}

// PlayerPath returns the skill breakdown URL of the player at slot. The hide
// choice is carried along so the page shows the same names as the roster.
func PlayerPath(id model.EncounterID, slot int, hideNames bool) string {
	return EncounterPath(id) + "/players/" + strconv.Itoa(slot) + "?hide_names=" + strconv.FormatBool(hideNames)
}

// Href sanitizes a URL and escapes it for use in an attribute
func Href(u string) string {
	return templ.EscapeString(string(templ.URL(u)))
}

func render(fn func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fn(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// EncounterRow renders one encounter in the encounter list
func EncounterRow(e *model.Encounter) templ.Component {
	return render(func(b *strings.Builder) {
		writeEncounterRow(b, e)
	})
}

func writeEncounterRow(b *strings.Builder, e *model.Encounter) {
	b.WriteString(`<tr id="` + templ.EscapeString(EncounterRowID(e.ID)) + `" class="encounter-row">`)
	b.WriteString(`<td class="boss"><a href="` + Href(EncounterPath(e.ID)) + `">` + templ.EscapeString(e.CurrentBoss) + `</a></td>`)
	b.WriteString(`<td class="difficulty">` + templ.EscapeString(e.Difficulty) + `</td>`)
	b.WriteString(`<td class="start">` + e.FightStart.UTC().Format("2006-01-02 15:04") + `</td>`)
	b.WriteString(`<td class="duration">` + display.FormatDuration(e.Duration) + `</td>`)
	b.WriteString(`<td class="classes">` + templ.EscapeString(strings.Join(e.Classes(), ", ")) + `</td>`)

	star, label := "☆", "Add to favorites"
	if e.Favorite {
		star, label = "★", "Remove from favorites"
	}
	b.WriteString(`<td class="favorite"><form method="post" action="` + Href(EncounterPath(e.ID)+"/favorite") + `">`)
	b.WriteString(`<button type="submit" title="` + label + `">` + star + `</button></form></td>`)
	b.WriteString(`</tr>`)
}

// EncounterTable renders the encounter list
func EncounterTable(encounters []*model.Encounter) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<table id="` + EncounterListID + `" class="encounters">`)
		b.WriteString(`<thead><tr><th>Boss</th><th>Difficulty</th><th>Start</th><th>Duration</th><th>Classes</th><th></th></tr></thead>`)
		b.WriteString(`<tbody sse-swap="encounter-saved" hx-swap="afterbegin">`)
		for _, e := range encounters {
			writeEncounterRow(b, e)
		}
		b.WriteString(`</tbody></table>`)
		if len(encounters) == 0 {
			b.WriteString(`<p class="empty">No encounters recorded yet.</p>`)
		}
	})
}

// RosterTable renders the player roster of an encounter
func RosterTable(r *model.Roster) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<table id="` + RosterID + `" class="roster">`)
		b.WriteString(`<thead><tr><th>Name</th><th>Class</th><th>Damage</th><th>DPS</th><th>Share</th></tr></thead><tbody>`)
		for _, row := range r.Rows {
			classes := []string{"player"}
			if row.IsDead {
				classes = append(classes, "dead")
			}
			if row.IsLocal {
				classes = append(classes, "local")
			}
			b.WriteString(`<tr class="` + strings.Join(classes, " ") + `">`)
			b.WriteString(`<td class="name" title="` + templ.EscapeString(row.DisplayName) + `">`)
			b.WriteString(`<a href="` + Href(PlayerPath(r.EncounterID, row.Slot, r.HideNames)) + `">` + templ.EscapeString(row.ShortName) + `</a></td>`)
			b.WriteString(`<td class="class">` + templ.EscapeString(row.Class) + `</td>`)
			b.WriteString(`<td class="damage">` + display.FormatNumber(row.DamageDealt) + `</td>`)
			b.WriteString(`<td class="dps">` + display.FormatNumber(row.Dps) + `</td>`)
			b.WriteString(`<td class="share">` + display.FormatPercent(row.DamageShare) + `</td>`)
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table>`)
	})
}

// SkillTable renders a player's skill breakdown
func SkillTable(skills []model.SkillView) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<table class="skills"><thead><tr><th>Skill</th><th>Damage</th><th>Casts</th><th>Share</th><th>Description</th></tr></thead><tbody>`)
		for _, sk := range skills {
			b.WriteString(`<tr class="skill">`)
			b.WriteString(`<td class="skill-name">` + templ.EscapeString(sk.Name) + `</td>`)
			b.WriteString(`<td class="damage">` + display.FormatNumber(sk.TotalDamage) + `</td>`)
			b.WriteString(`<td class="casts">` + display.FormatNumber(sk.Casts) + `</td>`)
			b.WriteString(`<td class="share">` + display.FormatPercent(sk.DamageShare) + `</td>`)
			b.WriteString(`<td class="description">` + templ.EscapeString(sk.Description) + `</td>`)
			b.WriteString(`</tr>`)
		}
		b.WriteString(`</tbody></table>`)
	})
}
