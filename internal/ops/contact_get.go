package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/keeper/internal/record"
)

// ContactGetInput contains parameters for the ContactGet operation.
type ContactGetInput struct {
	ID   string
	Name string
}

// ContactGetOutput contains the result of the ContactGet operation.
type ContactGetOutput struct {
	record.Contact // embedded (copy, not pointer)
}

// ContactGet retrieves a single contact by ID or exact name.
func ContactGet(ctx context.Context, database *sql.DB, input ContactGetInput) (*ContactGetOutput, error) {
	c, err := resolveContact(ctx, database, input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	return &ContactGetOutput{Contact: *c}, nil
}
