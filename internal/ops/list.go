package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/tinynotes/internal/db"
	"github.com/hpungsan/tinynotes/internal/note"
)

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items []note.Note `json:"items"`
	Total int         `json:"total"`
}

// List retrieves all notes in creation (insertion) order.
func List(ctx context.Context, database *sql.DB) (*ListOutput, error) {
	notes, err := db.List(ctx, database)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if notes == nil {
		notes = []note.Note{}
	}

	return &ListOutput{
		Items: notes,
		Total: len(notes),
	}, nil
}
