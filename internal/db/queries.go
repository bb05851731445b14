package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/tinynotes/internal/errors"
	"github.com/hpungsan/tinynotes/internal/note"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.NotesError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// Insert stores a new note.
func Insert(ctx context.Context, database *sql.DB, n *note.Note) error {
	query := `
		INSERT INTO notes (id, content, content_chars, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := database.ExecContext(ctx, query,
		n.ID, n.Content, note.CountChars(n.Content), n.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetByID retrieves a note by its ULID.
func GetByID(ctx context.Context, database *sql.DB, id string) (*note.Note, error) {
	query := `SELECT id, content, created_at FROM notes WHERE id = ?`

	var n note.Note
	err := database.QueryRowContext(ctx, query, id).Scan(&n.ID, &n.Content, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return &n, nil
}

// List returns all notes in insertion order.
func List(ctx context.Context, database *sql.DB) ([]note.Note, error) {
	query := `SELECT id, content, created_at FROM notes ORDER BY rowid ASC`

	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	notes := make([]note.Note, 0)
	for rows.Next() {
		var n note.Note
		if err := rows.Scan(&n.ID, &n.Content, &n.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return notes, nil
}

// Count returns the total number of stored notes.
func Count(ctx context.Context, database *sql.DB) (int, error) {
	var total int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&total); err != nil {
		return 0, errors.NewInternal(err)
	}
	return total, nil
}
