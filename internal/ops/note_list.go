package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/keeper/internal/db"
	"github.com/hpungsan/keeper/internal/record"
)

// NoteListInput contains parameters for the NoteList operation.
type NoteListInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// NoteListOutput contains the result of the NoteList operation.
type NoteListOutput struct {
	Items      []record.Note `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// NoteList retrieves notes in insertion order with pagination.
func NoteList(ctx context.Context, database *sql.DB, input NoteListInput) (*NoteListOutput, error) {
	limit := clampLimit(input.Limit)
	offset := max(input.Offset, 0)

	items, total, err := db.ListNotes(ctx, database, limit, offset)
	if err != nil {
		return nil, err
	}

	return &NoteListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}
