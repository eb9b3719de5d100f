package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/keeper/internal/db"
)

// ContactDeleteInput contains parameters for the ContactDelete operation.
type ContactDeleteInput struct {
	ID   string
	Name string
}

// ContactDeleteOutput contains the result of the ContactDelete operation.
type ContactDeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// ContactDelete removes exactly one contact. A name that matches several
// contacts is rejected with AMBIGUOUS_MATCH rather than guessing.
func ContactDelete(ctx context.Context, database *sql.DB, input ContactDeleteInput) (*ContactDeleteOutput, error) {
	c, err := resolveContact(ctx, database, input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	if err := db.DeleteContactByID(ctx, database, c.ID); err != nil {
		return nil, err
	}

	return &ContactDeleteOutput{
		Deleted: true,
		ID:      c.ID,
	}, nil
}
