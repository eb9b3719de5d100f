package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/keeper/internal/db"
	"github.com/hpungsan/keeper/internal/record"
)

// ContactListInput contains parameters for the ContactList operation.
type ContactListInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// ContactListOutput contains the result of the ContactList operation.
type ContactListOutput struct {
	Items      []record.Contact `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// ContactList retrieves contacts in insertion order with pagination.
func ContactList(ctx context.Context, database *sql.DB, input ContactListInput) (*ContactListOutput, error) {
	limit := clampLimit(input.Limit)
	offset := max(input.Offset, 0)

	items, total, err := db.ListContacts(ctx, database, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ContactListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}
