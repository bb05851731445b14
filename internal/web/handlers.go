package web

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/hpungsan/tinynotes/internal/config"
	"github.com/hpungsan/tinynotes/internal/errors"
	"github.com/hpungsan/tinynotes/internal/idempotency"
	"github.com/hpungsan/tinynotes/internal/metrics"
	"github.com/hpungsan/tinynotes/internal/note"
	"github.com/hpungsan/tinynotes/internal/ops"
)

// createNoteScope partitions the idempotency store for the create-note
// operation. The MCP surface shares the same scope so retries replay across
// transports.
const createNoteScope = "create_note"

// Handlers contains HTTP route handlers for the notes API.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	idem     *idempotency.Store
	metrics  *metrics.Recorder
	renderer *Renderer
}

// createNoteRequest is the POST /notes request body.
type createNoteRequest struct {
	Content string `json:"content"`
}

// HandleHealthz handles GET /healthz.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// HandleCreateNote handles POST /notes — create a note, idempotently.
// Replays of a previously seen Idempotency-Key return the stored response
// bytes verbatim, so the client sees the identical 201 body including the
// original id and createdAt.
func (h *Handlers) HandleCreateNote(w http.ResponseWriter, r *http.Request) {
	var body createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(w, errors.NewInvalidRequest("invalid JSON body"))
		return
	}

	if err := note.ValidateContent(body.Content, h.cfg.NoteMaxChars); err != nil {
		renderError(w, err)
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		renderError(w, errors.NewMissingIdempotencyKey())
		return
	}

	// The note insert and the idempotency record are committed inside one
	// critical section: a failed create stores nothing, and concurrent
	// retries on the same key execute the create exactly once.
	stored, _, err := h.idem.Do(createNoteScope, key, func() ([]byte, error) {
		n, err := ops.Create(r.Context(), h.db, h.cfg, ops.CreateInput{Content: body.Content})
		if err != nil {
			return nil, err
		}
		return json.Marshal(n)
	})
	if err != nil {
		renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(stored)
}

// HandleListNotes handles GET /notes — all notes in creation order.
func (h *Handlers) HandleListNotes(w http.ResponseWriter, r *http.Request) {
	result, err := ops.List(r.Context(), h.db)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, result.Items)
}

// HandleMetrics handles GET /metrics — per-endpoint count and p95 latency.
func (h *Handlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, h.metrics.Snapshot())
}

// HandleIndex handles GET / — HTML page listing notes with rendered content.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	result, err := ops.List(r.Context(), h.db)
	if err != nil {
		renderError(w, err)
		return
	}

	views := make([]noteView, 0, len(result.Items))
	for _, n := range result.Items {
		views = append(views, noteView{
			ID:           n.ID,
			CreatedAt:    n.CreatedAt,
			RenderedHTML: renderMarkdown(n.Content),
		})
	}

	h.renderer.renderPage(w, http.StatusOK, "notes", NotesPageData{
		PageData: PageData{
			Title:   "Notes",
			Version: h.renderer.version,
		},
		Notes: views,
		Total: result.Total,
	})
}
