package web_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/encounterlog/internal/services/roster"
	"github.com/mcoot/encounterlog/internal/storage/storagetest"
)

func TestHomeListsEncounters(t *testing.T) {
	ts := newWebTestServer(t)
	ts.ingest(storagetest.NewEncounter("Valtan", 0))
	ts.ingest(storagetest.NewEncounter("Vykas", time.Hour))

	rr := ts.get("/")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")

	doc := parseHTML(rr.Body)
	rows := doc.Find("#encounter-list tr.encounter-row")
	require.Equal(t, 2, rows.Length())

	// newest first
	assert.Equal(t, "Vykas", rows.First().Find("td.boss").Text())
	assert.Equal(t, "Berserker, Bard", rows.First().Find("td.classes").Text())
	assert.Equal(t, "5:00", rows.First().Find("td.duration").Text())
	assertContainsElement(t, doc, `body[sse-connect="/events"]`)
}

func TestHomeEmpty(t *testing.T) {
	ts := newWebTestServer(t)

	doc := parseHTML(ts.get("/").Body)
	assertContainsText(t, doc, "p.empty", "No encounters")
	assertNotContainsElement(t, doc, "tr.encounter-row")
}

func TestHomeFilterByBoss(t *testing.T) {
	ts := newWebTestServer(t)
	ts.ingest(storagetest.NewEncounter("Valtan", 0))
	ts.ingest(storagetest.NewEncounter("Vykas", time.Hour))

	doc := parseHTML(ts.get("/?boss=Valtan").Body)
	rows := doc.Find("tr.encounter-row")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "Valtan", rows.Find("td.boss").Text())

	value, _ := doc.Find(`input[name="boss"]`).Attr("value")
	assert.Equal(t, "Valtan", value)
}

func TestHomeSearch(t *testing.T) {
	ts := newWebTestServer(t)
	ts.ingest(storagetest.NewEncounter("Valtan", 0))
	vykas := storagetest.NewEncounter("Vykas", time.Hour)
	vykas.Entities[1].Name = "Zephyr"
	ts.ingest(vykas)

	doc := parseHTML(ts.get("/?q=zeph").Body)
	rows := doc.Find("tr.encounter-row")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "Vykas", rows.Find("td.boss").Text())

	value, _ := doc.Find(`input[name="q"]`).Attr("value")
	assert.Equal(t, "zeph", value)

	doc = parseHTML(ts.get("/?q=alice").Body)
	assert.Equal(t, 2, doc.Find("tr.encounter-row").Length())
}

func TestEncounterPageShowsRoster(t *testing.T) {
	ts := newWebTestServer(t)
	e := ts.ingest(newEncounter("Valtan"))

	rr := ts.get(encounterPath(e.ID))
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "h1.boss", "Valtan")
	assertContainsElement(t, doc, `body[sse-connect="`+encounterPath(e.ID)+`/events"]`)

	rows := doc.Find("#roster tr.player")
	require.Equal(t, 2, rows.Length())

	first := rows.First()
	assert.True(t, first.HasClass("local"))
	assert.Equal(t, "Alice", first.Find("td.name").Text())
	assert.Equal(t, "1,000,000", first.Find("td.damage").Text())
	assert.Equal(t, "83.3%", first.Find("td.share").Text())

	second := rows.Eq(1)
	assert.True(t, second.HasClass("dead"))
	assert.Equal(t, "💀 Bard", second.Find("td.name").Text())
}

func TestEncounterPageTruncatesLongNames(t *testing.T) {
	ts := newWebTestServer(t)
	in := newEncounter("Valtan")
	in.Entities[0].Name = "Abcdefghijklmnop"
	in.LocalPlayer = in.Entities[0].Name
	e := ts.ingest(in)

	doc := parseHTML(ts.get(encounterPath(e.ID)).Body)
	cell := doc.Find("#roster tr.player td.name").First()
	assert.Equal(t, "Abcdefghij...", cell.Text())
	title, _ := cell.Attr("title")
	assert.Equal(t, "Abcdefghijklmnop", title)
}

func TestEncounterPageHideNames(t *testing.T) {
	ts := newWebTestServer(t)
	in := newEncounter("Valtan")
	in.Entities[1].Name = "Bob"
	e := ts.ingest(in)

	doc := parseHTML(ts.get(encounterPath(e.ID)).Body)
	assert.Equal(t, "💀 Bob", doc.Find("#roster tr.player td.name").Eq(1).Text())
	assertContainsText(t, doc, "a.toggle-names", "Hide names")

	doc = parseHTML(ts.get(encounterPath(e.ID) + "?hide_names=true").Body)
	names := doc.Find("#roster tr.player td.name")
	assert.Equal(t, "Alice", names.Eq(0).Text())
	assert.Equal(t, "💀 Bard", names.Eq(1).Text())
	assertContainsText(t, doc, "a.toggle-names", "Show names")
}

func TestEncounterPageServerDefaultHidesNames(t *testing.T) {
	ts := newWebTestServerWithRoster(t, roster.Config{HideNames: true, NameLength: 10})
	in := newEncounter("Valtan")
	in.Entities[1].Name = "Bob"
	e := ts.ingest(in)

	doc := parseHTML(ts.get(encounterPath(e.ID)).Body)
	assert.Equal(t, "💀 Bard", doc.Find("#roster tr.player td.name").Eq(1).Text())

	doc = parseHTML(ts.get(encounterPath(e.ID) + "?hide_names=false").Body)
	assert.Equal(t, "💀 Bob", doc.Find("#roster tr.player td.name").Eq(1).Text())
}

func TestEncounterPageEscapesNames(t *testing.T) {
	ts := newWebTestServer(t)
	in := newEncounter("<script>alert(1)</script>")
	in.Entities[0].Name = "Al<b>ice"
	in.LocalPlayer = "Al<b>ice"
	e := ts.ingest(in)

	rr := ts.get(encounterPath(e.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "<script>alert(1)</script>")

	doc := parseHTML(rr.Body)
	assertNotContainsElement(t, doc, "#roster b")
	assertContainsText(t, doc, "h1.boss", "<script>alert(1)</script>")
}

func TestPlayerPageShowsSanitizedSkills(t *testing.T) {
	ts := newWebTestServer(t)
	e := ts.ingest(newEncounter("Valtan"))

	rr := ts.get(encounterPath(e.ID) + "/players/0")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "h1.player-name", "Alice")
	skills := doc.Find("tr.skill")
	require.Equal(t, 2, skills.Length())
	assert.Equal(t, "Red Dust", skills.First().Find("td.skill-name").Text())
	assert.Equal(t, "Deals ?? damage", skills.First().Find("td.description").Text())
	assert.Equal(t, "60.0%", skills.First().Find("td.share").Text())
}

func TestPlayerPageWithoutSkills(t *testing.T) {
	ts := newWebTestServer(t)
	e := ts.ingest(newEncounter("Valtan"))

	doc := parseHTML(ts.get(encounterPath(e.ID) + "/players/1").Body)
	assertContainsText(t, doc, "h1.player-name", "💀 Bard")
	assertContainsText(t, doc, "p.empty", "No skills")
}

func TestPlayerPageUnknownPlayer(t *testing.T) {
	ts := newWebTestServer(t)
	e := ts.ingest(newEncounter("Valtan"))

	rr := ts.get(encounterPath(e.ID) + "/players/9")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), "p.error-message", "Player not found")

	// slot 2 holds the boss
	rr = ts.get(encounterPath(e.ID) + "/players/2")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRosterLinksDoNotExposeHiddenNames(t *testing.T) {
	ts := newWebTestServer(t)
	in := newEncounter("Valtan")
	in.Entities[1].Name = "Carol"
	in.Entities[1].IsDead = false
	e := ts.ingest(in)

	rr := ts.get(encounterPath(e.ID) + "?hide_names=true")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "Carol")

	doc := parseHTML(rr.Body)
	href, ok := doc.Find("#roster tr.player td.name a").Eq(1).Attr("href")
	require.True(t, ok)
	assert.Equal(t, encounterPath(e.ID)+"/players/1?hide_names=true", href)
	assertContainsElement(t, doc, `body[sse-connect="`+encounterPath(e.ID)+`/events?hide_names=true"]`)
}

func TestPlayerPageFollowsHideNames(t *testing.T) {
	ts := newWebTestServer(t)
	in := newEncounter("Valtan")
	in.Entities[1].Name = "Carol"
	e := ts.ingest(in)

	doc := parseHTML(ts.get(encounterPath(e.ID) + "/players/1").Body)
	assertContainsText(t, doc, "h1.player-name", "💀 Carol")

	rr := ts.get(encounterPath(e.ID) + "/players/1?hide_names=true")
	assert.NotContains(t, rr.Body.String(), "Carol")
	assertContainsText(t, parseHTML(rr.Body), "h1.player-name", "💀 Bard")

	// the local player is never hidden
	doc = parseHTML(ts.get(encounterPath(e.ID) + "/players/0?hide_names=true").Body)
	assertContainsText(t, doc, "h1.player-name", "Alice")
}

func TestPlayerPageServerDefaultHidesNames(t *testing.T) {
	ts := newWebTestServerWithRoster(t, roster.Config{HideNames: true, NameLength: 10})
	in := newEncounter("Valtan")
	in.Entities[1].Name = "Carol"
	e := ts.ingest(in)

	doc := parseHTML(ts.get(encounterPath(e.ID) + "/players/1").Body)
	assertContainsText(t, doc, "h1.player-name", "💀 Bard")

	doc = parseHTML(ts.get(encounterPath(e.ID) + "/players/1?hide_names=false").Body)
	assertContainsText(t, doc, "h1.player-name", "💀 Carol")
}

func TestToggleFavorite(t *testing.T) {
	ts := newWebTestServer(t)
	e := ts.ingest(newEncounter("Valtan"))

	rr := ts.post(encounterPath(e.ID)+"/favorite", url.Values{})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))

	rr = ts.followRedirect(rr)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash-success", "Added to favorites")
	assertContainsText(t, doc, "td.favorite button", "★")

	// flash is shown once
	doc = parseHTML(ts.get("/").Body)
	assertNotContainsElement(t, doc, ".flash")

	// favorites filter
	doc = parseHTML(ts.get("/?favorites=true").Body)
	assert.Equal(t, 1, doc.Find("tr.encounter-row").Length())
}

func TestToggleFavoriteFromEncounterPage(t *testing.T) {
	ts := newWebTestServer(t)
	e := ts.ingest(newEncounter("Valtan"))
	require.NoError(t, ts.app.EncounterService.SetFavorite(context.Background(), e.ID, true))

	rr := ts.post(encounterPath(e.ID)+"/favorite", url.Values{"next": {encounterPath(e.ID)}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, encounterPath(e.ID), rr.Header().Get("Location"))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Removed from favorites")
	assertContainsText(t, doc, "form.favorite button", "☆")
}

func TestToggleFavoriteIgnoresForeignRedirect(t *testing.T) {
	ts := newWebTestServer(t)
	e := ts.ingest(newEncounter("Valtan"))

	rr := ts.post(encounterPath(e.ID)+"/favorite", url.Values{"next": {"https://example.com"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
}
