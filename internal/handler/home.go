package handler

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/NagawaEsther/live-well/internal/view"
)

const (
	appName = "LiveWell App"
	docsURL = "/api/docs"
	specURL = "/swagger.json"
)

// HandleHome renders the home page.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	render(w, r, view.HomePage(appName, docsURL))
}

// HandleDocs renders the Swagger UI shell for the API document.
func HandleDocs(w http.ResponseWriter, r *http.Request) {
	render(w, r, view.DocsPage(appName, specURL))
}

// HandleSwaggerJSON serves the embedded OpenAPI document.
func HandleSwaggerJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(swaggerJSON)
}

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "error", err)
	}
}
