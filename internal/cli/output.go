package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mcoot/encounterlog/internal/api/response"
	"github.com/mcoot/encounterlog/internal/display"
)

// Lipgloss styles for text output
var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	deadStyle   = cellStyle.Foreground(lipgloss.Color("240"))
	localStyle  = cellStyle.Foreground(lipgloss.Color("228"))
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.EncounterList:
		o.printEncounterList(v)
	case response.Encounter:
		o.printEncounter(v)
	case response.EncounterPreview:
		o.printPreview(v)
	case response.Roster:
		o.printRoster(v)
	case response.SkillList:
		o.printSkills(v)
	case FormatResult:
		_, _ = fmt.Fprintln(o.w, v.Result)
	case response.HealthResponse:
		_, _ = fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// FormatResult is the output of the local format commands
type FormatResult struct {
	Input  string `json:"input"`
	Result string `json:"result"`
}

func (o *Output) printEncounterList(l response.EncounterList) {
	if len(l.Encounters) == 0 {
		_, _ = fmt.Fprintln(o.w, "No encounters")
		return
	}

	rows := make([][]string, 0, len(l.Encounters))
	for _, e := range l.Encounters {
		fav := ""
		if e.Favorite {
			fav = "★"
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.CurrentBoss,
			e.Difficulty,
			e.FightStart.UTC().Format("2006-01-02 15:04"),
			display.FormatDuration(time.Duration(e.DurationMs) * time.Millisecond),
			strings.Join(e.Classes, ", "),
			fav,
		})
	}

	o.printTable([]string{"ID", "Boss", "Difficulty", "Start", "Duration", "Classes", "Fav"}, rows, nil)
}

func (o *Output) printPreview(e response.EncounterPreview) {
	status := "Wipe"
	if e.Cleared {
		status = "Cleared"
	}
	_, _ = fmt.Fprintln(o.w, titleStyle.Render(fmt.Sprintf("Encounter %d: %s", e.ID, e.CurrentBoss)))
	_, _ = fmt.Fprintf(o.w, "Difficulty: %s\n", e.Difficulty)
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", status)
	_, _ = fmt.Fprintf(o.w, "Start: %s\n", e.FightStart.UTC().Format(time.RFC3339))
	_, _ = fmt.Fprintf(o.w, "Duration: %s\n", display.FormatDuration(time.Duration(e.DurationMs)*time.Millisecond))
	_, _ = fmt.Fprintf(o.w, "Total Damage: %s\n", display.FormatNumber(e.TotalDamageDealt))
	_, _ = fmt.Fprintf(o.w, "Favorite: %t\n", e.Favorite)
}

func (o *Output) printEncounter(e response.Encounter) {
	o.printPreview(e.EncounterPreview)

	rows := make([][]string, 0, len(e.Entities))
	for _, ent := range e.Entities {
		rows = append(rows, []string{
			ent.Name,
			ent.EntityType,
			ent.Class,
			display.FormatNumber(ent.DamageDealt),
			strconv.FormatBool(ent.IsDead),
		})
	}
	_, _ = fmt.Fprintln(o.w)
	o.printTable([]string{"Name", "Type", "Class", "Damage", "Dead"}, rows, nil)
}

func (o *Output) printRoster(r response.Roster) {
	_, _ = fmt.Fprintln(o.w, titleStyle.Render(fmt.Sprintf("%s (%s)", r.CurrentBoss, r.Difficulty)))

	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{
			row.ShortName,
			row.Class,
			display.FormatNumber(row.DamageDealt),
			display.FormatNumber(row.Dps),
			display.FormatPercent(row.DamageShare),
		})
	}

	o.printTable([]string{"Name", "Class", "Damage", "DPS", "Share"}, rows, func(row int) lipgloss.Style {
		switch {
		case r.Rows[row].IsDead:
			return deadStyle
		case r.Rows[row].IsLocal:
			return localStyle
		default:
			return cellStyle
		}
	})
}

func (o *Output) printSkills(s response.SkillList) {
	_, _ = fmt.Fprintln(o.w, titleStyle.Render(s.Entity))
	if len(s.Skills) == 0 {
		_, _ = fmt.Fprintln(o.w, "No skills recorded")
		return
	}

	for _, sk := range s.Skills {
		_, _ = fmt.Fprintf(o.w, "\n%s  %s (%s, %s casts)\n",
			sk.Name,
			display.FormatNumber(sk.TotalDamage),
			display.FormatPercent(sk.DamageShare),
			display.FormatNumber(sk.Casts))
		if sk.Description != "" {
			for _, line := range strings.Split(display.Wrap(sk.Description, display.DefaultWrapWidth), "\n") {
				_, _ = fmt.Fprintf(o.w, "    %s\n", line)
			}
		}
	}
}

// printTable renders rows under headers. rowStyle, when set, picks the style of each body row.
func (o *Output) printTable(headers []string, rows [][]string, rowStyle func(row int) lipgloss.Style) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case rowStyle != nil:
				return rowStyle(row)
			default:
				return cellStyle
			}
		})
	_, _ = fmt.Fprintln(o.w, t.Render())
}
