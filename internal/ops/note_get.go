package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/keeper/internal/record"
)

// NoteGetInput contains parameters for the NoteGet operation.
type NoteGetInput struct {
	ID   string
	Text string // substring predicate; must match exactly one note
}

// NoteGetOutput contains the result of the NoteGet operation.
type NoteGetOutput struct {
	record.Note // embedded (copy, not pointer)
}

// NoteGet retrieves a single note by ID or text predicate.
func NoteGet(ctx context.Context, database *sql.DB, input NoteGetInput) (*NoteGetOutput, error) {
	n, err := resolveNote(ctx, database, input.ID, input.Text)
	if err != nil {
		return nil, err
	}

	return &NoteGetOutput{Note: *n}, nil
}
