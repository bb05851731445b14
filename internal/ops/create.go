package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/tinynotes/internal/config"
	"github.com/hpungsan/tinynotes/internal/db"
	"github.com/hpungsan/tinynotes/internal/errors"
	"github.com/hpungsan/tinynotes/internal/note"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Content string // required, 1..cfg.NoteMaxChars runes
}

// Create validates and stores a new note, returning it with its generated ID
// and creation timestamp.
func Create(ctx context.Context, database *sql.DB, cfg *config.Config, input CreateInput) (*note.Note, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, errors.NewContentInvalid("content is required", note.MinContentChars, cfg.NoteMaxChars)
	}
	if err := note.ValidateContent(input.Content, cfg.NoteMaxChars); err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	n := &note.Note{
		ID:        id,
		Content:   input.Content,
		CreatedAt: time.Now().Unix(),
	}

	if err := db.Insert(ctx, database, n); err != nil {
		return nil, err
	}

	return n, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
