package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/tinynotes/internal/errors"
)

// PageData contains common fields used across page templates.
type PageData struct {
	Title   string
	Version string
}

// noteView is a note prepared for HTML display.
type noteView struct {
	ID           string
	CreatedAt    int64
	RenderedHTML template.HTML
}

// NotesPageData is the template data for the notes list page.
type NotesPageData struct {
	PageData
	Notes []noteView
	Total int
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"formatTime": formatTime,
	}

	// Parse layout as the base template
	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"notes": "notes.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

// renderPage renders a named page template with the given data and status.
func (r *Renderer) renderPage(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderJSON writes v as a JSON response with the given status.
func renderJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("JSON encoding error: %v", err)
	}
}

// renderError writes an error as {"detail": message} at the error's HTTP
// status. Non-NotesError values become 500s with a generic message; the
// underlying cause is logged, never sent to the client.
func renderError(w http.ResponseWriter, err error) {
	var nErr *errors.NotesError
	if !stderrors.As(err, &nErr) {
		nErr = errors.NewInternal(err)
	}

	if nErr.Code == errors.ErrInternal {
		log.Printf("internal error: %v", nErr.Details["internal_error"])
	}

	renderJSON(w, nErr.Status, map[string]string{"detail": nErr.Message})
}

// renderMarkdown converts markdown note content to HTML for display.
// goldmark's default renderer drops raw HTML, so note content cannot inject
// markup into the page.
func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		log.Printf("markdown rendering error: %v", err)
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}

// formatTime formats a Unix timestamp for display.
func formatTime(unix int64) string {
	return time.Unix(unix, 0).UTC().Format("2006-01-02 15:04:05 UTC")
}
