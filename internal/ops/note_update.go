package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/keeper/internal/db"
	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/record"
)

// NoteUpdateInput contains parameters for the NoteUpdate operation.
type NoteUpdateInput struct {
	// Addressing
	ID   string
	Text string // substring predicate; must match exactly one note

	// Editable fields (nil = don't change)
	NewText *string
	Tags    *[]string // empty list clears all tags
}

// NoteUpdateOutput contains the result of the NoteUpdate operation.
type NoteUpdateOutput struct {
	ID string `json:"id"`
}

// NoteUpdate modifies an existing note. Supplied fields are overwritten,
// unsupplied fields are left unchanged.
func NoteUpdate(ctx context.Context, database *sql.DB, input NoteUpdateInput) (*NoteUpdateOutput, error) {
	if input.NewText == nil && input.Tags == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	n, err := resolveNote(ctx, database, input.ID, input.Text)
	if err != nil {
		return nil, err
	}

	if input.NewText != nil {
		text := strings.TrimSpace(*input.NewText)
		if text == "" {
			return nil, errors.NewInvalidRequest("text must not be empty")
		}
		n.Text = text
	}

	if input.Tags != nil {
		n.Tags = record.NormalizeTags(*input.Tags)
	}

	n.UpdatedAt = time.Now().Unix()

	if err := db.UpdateNoteByID(ctx, database, n); err != nil {
		return nil, err
	}

	return &NoteUpdateOutput{ID: n.ID}, nil
}
