// Package layout holds the page shell shared by every web page.
package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // success, error or info
	Message string
}

// PageData is the data every page needs
type PageData struct {
	Title string
	Flash *FlashMessage
	// EventsURL, when set, opens an SSE connection for live updates
	EventsURL string
}

// Base wraps body in the HTML document shell
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := "Encounter Log"
		if data.Title != "" {
			title = data.Title + " - Encounter Log"
		}

		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(title)+`</title>`+
			`<link rel="stylesheet" href="/static/css/style.css">`+
			`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`+
			`<script src="https://unpkg.com/htmx-ext-sse@2.2.2/sse.js"></script>`+
			`</head>`); err != nil {
			return err
		}

		bodyOpen := `<body>`
		if data.EventsURL != "" {
			bodyOpen = `<body hx-ext="sse" sse-connect="` + templ.EscapeString(data.EventsURL) + `">`
		}
		if _, err := io.WriteString(w, bodyOpen+`<nav><a href="/">Encounters</a></nav><main>`); err != nil {
			return err
		}

		if data.Flash != nil {
			if _, err := io.WriteString(w, `<div class="flash flash-`+templ.EscapeString(data.Flash.Type)+`">`+
				templ.EscapeString(data.Flash.Message)+`</div>`); err != nil {
				return err
			}
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
