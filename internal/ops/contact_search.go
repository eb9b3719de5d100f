package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/keeper/internal/db"
	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/record"
)

// ContactSearchInput contains parameters for the ContactSearch operation.
type ContactSearchInput struct {
	Query  string // required
	Limit  int    // default: 20, max: 100
	Offset int    // default: 0
}

// ContactSearchOutput contains the result of the ContactSearch operation.
type ContactSearchOutput struct {
	Items      []record.Contact `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// ContactSearch returns contacts where the query is a case-insensitive
// substring of name, address, phone, or email. An empty result set is not
// an error.
func ContactSearch(ctx context.Context, database *sql.DB, input ContactSearchInput) (*ContactSearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}

	limit := clampLimit(input.Limit)
	offset := max(input.Offset, 0)

	items, total, err := db.SearchContacts(ctx, database, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return &ContactSearchOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}
