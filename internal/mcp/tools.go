package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Schemas are kept small and explicit so clients can
// validate arguments before calling.

var createToolDef = mcp.Tool{
	Name:        "note_create",
	Description: "Create a note. Pass idempotency_key to make the call safely retryable: repeated calls with the same key return the originally created note.",
	InputSchema: mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "Note body text. Must be non-blank and within the configured character limit.",
			},
			"idempotency_key": map[string]any{
				"type":        "string",
				"description": "Optional client-chosen key. Calls repeated with the same key replay the first result instead of creating a duplicate.",
			},
		},
		Required: []string{"content"},
	},
}

var listToolDef = mcp.Tool{
	Name:        "note_list",
	Description: "List all notes in creation order.",
	InputSchema: mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]any{},
	},
}
