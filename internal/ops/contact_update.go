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

// ContactUpdateInput contains parameters for the ContactUpdate operation.
type ContactUpdateInput struct {
	// Addressing
	ID   string
	Name string

	// Editable fields (nil = don't change)
	NewName  *string
	Address  *string
	Phone    *string
	Email    *string
	Birthday *string // empty string clears the birthday
}

// ContactUpdateOutput contains the result of the ContactUpdate operation.
type ContactUpdateOutput struct {
	ID string `json:"id"`
}

// ContactUpdate modifies an existing contact. Supplied fields are
// overwritten, unsupplied fields are left unchanged.
func ContactUpdate(ctx context.Context, database *sql.DB, input ContactUpdateInput) (*ContactUpdateOutput, error) {
	if input.NewName == nil && input.Address == nil && input.Phone == nil &&
		input.Email == nil && input.Birthday == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	c, err := resolveContact(ctx, database, input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	if input.NewName != nil {
		name := strings.TrimSpace(*input.NewName)
		nameNorm := record.Normalize(name)
		if nameNorm == "" {
			return nil, errors.NewInvalidRequest("name must not be empty")
		}
		c.NameRaw = name
		c.NameNorm = nameNorm
	}

	if input.Address != nil {
		c.Address = strings.TrimSpace(*input.Address)
	}

	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if err := record.ValidatePhone(phone); err != nil {
			return nil, err
		}
		c.Phone = phone
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if err := record.ValidateEmail(email); err != nil {
			return nil, err
		}
		c.Email = email
	}

	if input.Birthday != nil {
		birthday := strings.TrimSpace(*input.Birthday)
		if birthday == "" {
			c.Birthday = nil
		} else {
			canonical, err := record.ParseBirthday(birthday)
			if err != nil {
				return nil, err
			}
			c.Birthday = &canonical
		}
	}

	c.UpdatedAt = time.Now().Unix()

	if err := db.UpdateContactByID(ctx, database, c); err != nil {
		return nil, err
	}

	return &ContactUpdateOutput{ID: c.ID}, nil
}
