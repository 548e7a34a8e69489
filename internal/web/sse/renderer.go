package sse

import (
	"bytes"
	"context"

	"github.com/mcoot/encounterlog/internal/model"
	"github.com/mcoot/encounterlog/internal/web/templates/components"
)

// Renderer converts models to HTML fragments for SSE
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderEncounterRow renders an encounter's list row as HTML
func (r *Renderer) RenderEncounterRow(ctx context.Context, e *model.Encounter) (string, error) {
	var buf bytes.Buffer
	if err := components.EncounterRow(e).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderRoster renders an encounter's roster table as HTML
func (r *Renderer) RenderRoster(ctx context.Context, roster *model.Roster) (string, error) {
	var buf bytes.Buffer
	if err := components.RosterTable(roster).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
