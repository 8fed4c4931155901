package cli

import (
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/iudanet/screensync/internal/models"
)

const entityTemplate = `
=== Entity Details ===

ID:       {{.ID}}
Version:  {{.Version}}
Status:   {{if .IsActive}}active{{else}}deleted{{end}}
Created:  {{time .CreatedAt}}
Updated:  {{time .UpdatedAt}}
Checksum: {{.Checksum}}
Size:     {{len .Payload}} bytes
`

const conflictTemplate = `
=== Conflict {{.ID}} ===

Entity:    {{.EntityID}}
Operation: {{.Operation}}
Detected:  {{time .DetectedAt}}
Local:     {{side .Local}}
Remote:    {{side .Remote}}
`

var templates = template.Must(template.New("cli").
	Funcs(template.FuncMap{
		"time": formatTime,
		"side": describeSide,
	}).
	Parse(`{{define "entity"}}` + entityTemplate + `{{end}}` +
		`{{define "conflict"}}` + conflictTemplate + `{{end}}`))

func renderEntity(w io.Writer, e *models.Entity) error {
	if err := templates.ExecuteTemplate(w, "entity", e); err != nil {
		return fmt.Errorf("failed to render entity: %w", err)
	}
	return nil
}

func renderConflict(w io.Writer, c *models.ConflictCase) error {
	if err := templates.ExecuteTemplate(w, "conflict", c); err != nil {
		return fmt.Errorf("failed to render conflict: %w", err)
	}
	return nil
}

func describeSide(e *models.Entity) string {
	if e == nil {
		return "none"
	}
	state := "active"
	if !e.IsActive {
		state = "deleted"
	}
	return fmt.Sprintf("v%d %s, %d bytes, updated %s", e.Version, state, len(e.Payload), formatTime(e.UpdatedAt))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
