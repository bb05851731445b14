package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/tinynotes/internal/config"
	"github.com/hpungsan/tinynotes/internal/errors"
	"github.com/hpungsan/tinynotes/internal/idempotency"
	"github.com/hpungsan/tinynotes/internal/ops"
)

// createNoteScope is the idempotency scope for note creation. It is the same
// scope the HTTP handler uses, so a key spent over one surface is spent for
// both when they share a process.
const createNoteScope = "create_note"

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db   *sql.DB
	cfg  *config.Config
	idem *idempotency.Store
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		db:   db,
		cfg:  cfg,
		idem: idempotency.NewStore(),
	}
}

// Request types for each tool

// CreateRequest represents the arguments for note_create.
type CreateRequest struct {
	Content        string `json:"content"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// Handler implementations

// HandleCreate handles the note_create tool call. When an idempotency key is
// supplied, repeated calls with the same key replay the first result.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	create := func() ([]byte, error) {
		n, err := ops.Create(ctx, h.db, h.cfg, ops.CreateInput{Content: input.Content})
		if err != nil {
			return nil, err
		}
		return json.Marshal(n)
	}

	if input.IdempotencyKey == "" {
		body, err := create()
		if err != nil {
			return errorResult(err), nil
		}
		return textResult(body), nil
	}

	body, _, err := h.idem.Do(createNoteScope, input.IdempotencyKey, create)
	if err != nil {
		return errorResult(err), nil
	}
	return textResult(body), nil
}

// HandleList handles the note_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.List(ctx, h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult creates an MCP error result from any error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if nErr, ok := err.(*errors.NotesError); ok {
		errorObj := map[string]any{
			"code":    nErr.Code,
			"message": nErr.Message,
			"status":  nErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like SQL errors
		if nErr.Code != errors.ErrInternal && nErr.Details != nil {
			errorObj["details"] = nErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

// textResult creates an MCP success result from pre-serialized JSON. Replayed
// idempotent creates return the stored bytes unchanged.
func textResult(body []byte) *mcp.CallToolResult {
	return mcp.NewToolResultText(string(body))
}
