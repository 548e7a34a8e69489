package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/encounterlog/internal/api"
	"github.com/mcoot/encounterlog/internal/api/request"
	"github.com/mcoot/encounterlog/internal/cli"
	"github.com/mcoot/encounterlog/internal/factory"
	"github.com/mcoot/encounterlog/internal/services/roster"
	"github.com/mcoot/encounterlog/internal/testutil"
	"github.com/mcoot/encounterlog/internal/web"
	"github.com/mcoot/encounterlog/internal/web/sse"
)

// cliRunner runs CLI commands in-process against a server
type cliRunner struct {
	serverURL string
}

func (r *cliRunner) run(args ...string) (string, error) {
	return r.runWithInput("", args...)
}

func (r *cliRunner) runWithInput(stdin string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// testServer is a real HTTP server serving the API and web routes
type testServer struct {
	*httptest.Server
	app *factory.App
}

func startTestServer(t *testing.T, rosterCfg roster.Config) *testServer {
	t.Helper()

	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{
		Logger:      logger,
		StorageType: factory.StorageTypeSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "encounters.db"),
		Roster:      rosterCfg,
	})
	require.NoError(t, err)

	router := mux.NewRouter()
	api.RegisterRoutes(router, api.RouterConfig{
		Logger:           logger,
		EncounterService: app.EncounterService,
		RosterService:    app.RosterService,
	})
	web.RegisterRoutes(router, web.RouterConfig{
		Logger:           logger,
		EncounterService: app.EncounterService,
		RosterService:    app.RosterService,
		HubManager:       app.HubManager,
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		_ = app.Close()
	})

	return &testServer{Server: server, app: app}
}

// Response types for JSON parsing
type encounterResponse struct {
	ID          int64    `json:"id"`
	CurrentBoss string   `json:"current_boss"`
	Favorite    bool     `json:"favorite"`
	Classes     []string `json:"classes"`
	Entities    []struct {
		Name string `json:"name"`
	} `json:"entities"`
}

type listResponse struct {
	Encounters []encounterResponse `json:"encounters"`
}

type rosterResponse struct {
	HideNames bool `json:"hide_names"`
	Rows      []struct {
		Name        string  `json:"name"`
		DisplayName string  `json:"display_name"`
		ShortName   string  `json:"short_name"`
		DamageShare float64 `json:"damage_share"`
	} `json:"rows"`
}

type skillsResponse struct {
	Entity string `json:"entity"`
	Skills []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"skills"`
}

type formatResponse struct {
	Input  string `json:"input"`
	Result string `json:"result"`
}

func parseJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

const encounterJSON = `{
  "fight_start": "2024-06-01T20:00:00Z",
  "duration_ms": 185000,
  "current_boss": "Thaemine",
  "local_player": "Sunny",
  "difficulty": "Hard",
  "cleared": true,
  "entities": [
    {"name": "Sunny", "entity_type": "PLAYER", "class": "Artist", "damage_dealt": 100, "dps": 1},
    {"name": "Grimblewortheastwood", "entity_type": "PLAYER", "class": "Deathblade", "damage_dealt": 300, "dps": 2,
     "skills": [{"id": 1, "name": "Blitz Rush", "tooltip": "Deals <$CALC dmg/> to <$TABLE_SKILLFEATURE t/>", "total_damage": 300, "casts": 3}]},
    {"name": "xX_lower_Xx", "entity_type": "PLAYER", "class": "Gunlancer", "is_dead": true, "damage_dealt": 0, "dps": 0},
    {"name": "Thaemine", "entity_type": "BOSS", "max_hp": 9000}
  ]
}`

func writeEncounterFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "encounter.json")
	require.NoError(t, os.WriteFile(path, []byte(encounterJSON), 0o600))
	return path
}

func TestCLI_Health(t *testing.T) {
	ts := startTestServer(t, roster.DefaultConfig())
	r := &cliRunner{serverURL: ts.URL}

	out, err := r.run("health")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"status": "ok"`)
}

func TestCLI_EncounterLifecycle(t *testing.T) {
	ts := startTestServer(t, roster.DefaultConfig())
	r := &cliRunner{serverURL: ts.URL}

	// Ingest from a file
	out, err := r.run("encounters", "ingest", writeEncounterFile(t))
	require.NoError(t, err, out)
	created := parseJSON[encounterResponse](t, out)
	require.NotZero(t, created.ID)
	assert.Equal(t, "Thaemine", created.CurrentBoss)
	id := strconv.FormatInt(created.ID, 10)

	// Ingest from stdin
	out, err = r.runWithInput(encounterJSON, "encounters", "ingest", "-")
	require.NoError(t, err, out)

	// List
	out, err = r.run("encounters", "list", "--boss", "Thaemine")
	require.NoError(t, err, out)
	assert.Len(t, parseJSON[listResponse](t, out).Encounters, 2)

	// Search by player name through the sqlite full text index
	out, err = r.run("encounters", "list", "--search", "worthEAST")
	require.NoError(t, err, out)
	assert.Len(t, parseJSON[listResponse](t, out).Encounters, 2)

	out, err = r.run("encounters", "list", "-s", "Kakul")
	require.NoError(t, err, out)
	assert.Empty(t, parseJSON[listResponse](t, out).Encounters)

	// Get
	out, err = r.run("encounters", "get", id)
	require.NoError(t, err, out)
	got := parseJSON[encounterResponse](t, out)
	assert.Len(t, got.Entities, 4)
	assert.Equal(t, []string{"Artist", "Deathblade", "Gunlancer"}, got.Classes)

	// Favorite
	out, err = r.run("encounters", "favorite", id)
	require.NoError(t, err, out)
	assert.True(t, parseJSON[encounterResponse](t, out).Favorite)

	out, err = r.run("encounters", "list", "--favorites")
	require.NoError(t, err, out)
	favs := parseJSON[listResponse](t, out).Encounters
	require.Len(t, favs, 1)
	assert.Equal(t, created.ID, favs[0].ID)

	out, err = r.run("encounters", "favorite", "--unset", id)
	require.NoError(t, err, out)
	assert.False(t, parseJSON[encounterResponse](t, out).Favorite)

	// Delete
	out, err = r.run("encounters", "delete", id)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleted encounter "+id)

	out, err = r.run("encounters", "get", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENCOUNTER_NOT_FOUND")
}

func TestCLI_IngestInvalidEncounter(t *testing.T) {
	ts := startTestServer(t, roster.DefaultConfig())
	r := &cliRunner{serverURL: ts.URL}

	_, err := r.runWithInput(`{"entities": []}`, "encounters", "ingest", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_ENCOUNTER")
}

func TestCLI_Roster(t *testing.T) {
	ts := startTestServer(t, roster.DefaultConfig())
	r := &cliRunner{serverURL: ts.URL}

	out, err := r.run("encounters", "ingest", writeEncounterFile(t))
	require.NoError(t, err, out)
	id := strconv.FormatInt(parseJSON[encounterResponse](t, out).ID, 10)

	out, err = r.run("roster", id)
	require.NoError(t, err, out)
	ros := parseJSON[rosterResponse](t, out)
	require.Len(t, ros.Rows, 3)

	assert.Equal(t, "Grimblewortheastwood", ros.Rows[0].DisplayName)
	assert.Equal(t, "Grimblewor...", ros.Rows[0].ShortName)
	assert.Equal(t, 75.0, ros.Rows[0].DamageShare)
	assert.Equal(t, "Sunny", ros.Rows[1].DisplayName)
	assert.Equal(t, "💀 Gunlancer", ros.Rows[2].DisplayName, "lowercase names are replaced by the class")

	out, err = r.run("roster", id, "--hide-names")
	require.NoError(t, err, out)
	ros = parseJSON[rosterResponse](t, out)
	assert.True(t, ros.HideNames)
	assert.Equal(t, "Deathblade", ros.Rows[0].DisplayName)
	assert.Equal(t, "Sunny", ros.Rows[1].DisplayName, "local player keeps their name")
}

func TestCLI_RosterServerDefault(t *testing.T) {
	ts := startTestServer(t, roster.Config{HideNames: true, NameLength: 4})
	r := &cliRunner{serverURL: ts.URL}

	out, err := r.run("encounters", "ingest", writeEncounterFile(t))
	require.NoError(t, err, out)
	id := strconv.FormatInt(parseJSON[encounterResponse](t, out).ID, 10)

	out, err = r.run("roster", id)
	require.NoError(t, err, out)
	ros := parseJSON[rosterResponse](t, out)
	assert.True(t, ros.HideNames)
	assert.Equal(t, "Deat...", ros.Rows[0].ShortName)

	out, err = r.run("roster", id, "--hide-names=false")
	require.NoError(t, err, out)
	assert.Equal(t, "Grimblewortheastwood", parseJSON[rosterResponse](t, out).Rows[0].DisplayName)
}

func TestCLI_Skills(t *testing.T) {
	ts := startTestServer(t, roster.DefaultConfig())
	r := &cliRunner{serverURL: ts.URL}

	out, err := r.run("encounters", "ingest", writeEncounterFile(t))
	require.NoError(t, err, out)
	id := strconv.FormatInt(parseJSON[encounterResponse](t, out).ID, 10)

	out, err = r.run("skills", id, "Grimblewortheastwood")
	require.NoError(t, err, out)
	skills := parseJSON[skillsResponse](t, out)
	require.Len(t, skills.Skills, 1)
	assert.Equal(t, "Deals ?? to ??", skills.Skills[0].Description)

	_, err = r.run("skills", id, "Nobody")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENTITY_NOT_FOUND")
}

func TestCLI_TextOutput(t *testing.T) {
	ts := startTestServer(t, roster.DefaultConfig())
	r := &cliRunner{serverURL: ts.URL}

	out, err := r.run("encounters", "ingest", writeEncounterFile(t))
	require.NoError(t, err, out)
	id := strconv.FormatInt(parseJSON[encounterResponse](t, out).ID, 10)

	var buf bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs([]string{"--server", ts.URL, "roster", id})
	cmd.SetOut(&buf)
	require.NoError(t, cmd.Execute())

	text := buf.String()
	assert.Contains(t, text, "Thaemine (Hard)")
	assert.Contains(t, text, "Grimblewor...")
	assert.Contains(t, text, "75.0%")
	assert.Contains(t, text, "💀 Gunlanc...")

	buf.Reset()
	cmd = cli.NewRootCmd()
	cmd.SetArgs([]string{"--server", ts.URL, "skills", id, "Grimblewortheastwood"})
	cmd.SetOut(&buf)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Blitz Rush")
	assert.Contains(t, buf.String(), "    Deals ?? to ??")
}

func TestCLI_Format(t *testing.T) {
	r := &cliRunner{serverURL: "http://127.0.0.1:1"} // never contacted

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"valid name", []string{"format", "name", "Alice", "--class", "Bard"}, "Alice"},
		{"invalid name", []string{"format", "name", "alice", "--class", "Bard"}, "Bard"},
		{"hidden dead name", []string{"format", "name", "Alice", "--class", "Bard", "--dead", "--hide-names"}, "💀 Bard"},
		{"truncate default", []string{"format", "truncate", "Hello, World!"}, "Hello, Wor..."},
		{"truncate length", []string{"format", "truncate", "-n", "3", "abcdef"}, "abc..."},
		{"truncate short", []string{"format", "truncate", "abc"}, "abc"},
		{"truncate emoji", []string{"format", "truncate", "-n", "1", "😀x"}, "..."},
		{"sanitize", []string{"format", "sanitize", `a <$CALC x="1"/> b`}, "a ?? b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.run(tt.args...)
			require.NoError(t, err, out)
			assert.Equal(t, tt.want, parseJSON[formatResponse](t, out).Result)
		})
	}
}

func TestCLI_Events(t *testing.T) {
	ts := startTestServer(t, roster.DefaultConfig())
	r := &cliRunner{serverURL: ts.URL}

	var (
		wg     sync.WaitGroup
		out    string
		runErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		out, runErr = r.run("events", "--count", "1")
	}()

	// Wait for the stream to subscribe before publishing
	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub(sse.EncountersTopic)
		return hub != nil && hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Ingest directly so the CLI's package state is only used by the stream
	var req request.IngestEncounterRequest
	require.NoError(t, json.Unmarshal([]byte(encounterJSON), &req))
	_, err := ts.app.EncounterService.Ingest(context.Background(), req.ToModel())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events command did not exit")
	}

	require.NoError(t, runErr, out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"event":"connected"`)
	assert.Contains(t, lines[1], `"event":"encounter-saved"`)
	assert.Contains(t, lines[1], "Thaemine")
}

func TestCLI_EventsUnknownEncounter(t *testing.T) {
	ts := startTestServer(t, roster.DefaultConfig())
	r := &cliRunner{serverURL: ts.URL}

	_, err := r.run("events", "12345")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status: 404")
}
