package note

import (
	"fmt"
	"unicode/utf8"

	"github.com/hpungsan/tinynotes/internal/errors"
)

// MinContentChars is the minimum note content length in runes.
const MinContentChars = 1

// Note represents a single stored note.
// Field names follow the wire format of the notes API.
type Note struct {
	// ID is a ULID that uniquely identifies this note
	ID string `json:"id"`

	// Content is the note body as supplied by the client
	Content string `json:"content"`

	// CreatedAt is the Unix timestamp when the note was created
	CreatedAt int64 `json:"createdAt"`
}

// CountChars returns the number of characters (runes, not bytes) in text.
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// ValidateContent checks that content is within the allowed length bounds.
// Lengths are measured in runes so multi-byte characters count once.
func ValidateContent(content string, maxChars int) error {
	n := CountChars(content)
	if n < MinContentChars {
		return errors.NewContentInvalid("content is required", MinContentChars, maxChars)
	}
	if n > maxChars {
		msg := fmt.Sprintf("content exceeds maximum length: %d chars (max %d)", n, maxChars)
		return errors.NewContentInvalid(msg, MinContentChars, maxChars)
	}
	return nil
}
