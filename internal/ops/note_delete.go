package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/keeper/internal/db"
)

// NoteDeleteInput contains parameters for the NoteDelete operation.
type NoteDeleteInput struct {
	ID   string
	Text string // substring predicate; must match exactly one note
}

// NoteDeleteOutput contains the result of the NoteDelete operation.
type NoteDeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// NoteDelete removes exactly one note. A text predicate that matches
// several notes is rejected with AMBIGUOUS_MATCH rather than guessing.
func NoteDelete(ctx context.Context, database *sql.DB, input NoteDeleteInput) (*NoteDeleteOutput, error) {
	n, err := resolveNote(ctx, database, input.ID, input.Text)
	if err != nil {
		return nil, err
	}

	if err := db.DeleteNoteByID(ctx, database, n.ID); err != nil {
		return nil, err
	}

	return &NoteDeleteOutput{
		Deleted: true,
		ID:      n.ID,
	}, nil
}
