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

// NoteAddInput contains parameters for the NoteAdd operation.
type NoteAddInput struct {
	Text string // required
	Tags []string
}

// NoteAddOutput contains the result of the NoteAdd operation.
type NoteAddOutput struct {
	ID string `json:"id"`
}

// NoteAdd creates a new note. Tags are normalized and deduplicated.
func NoteAdd(ctx context.Context, database *sql.DB, input NoteAddInput) (*NoteAddOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.NewInvalidRequest("text is required")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	n := &record.Note{
		ID:        id,
		Text:      text,
		Tags:      record.NormalizeTags(input.Tags),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := db.InsertNote(ctx, database, n); err != nil {
		return nil, err
	}

	return &NoteAddOutput{ID: id}, nil
}
