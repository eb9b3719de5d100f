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

// ContactAddInput contains parameters for the ContactAdd operation.
type ContactAddInput struct {
	Name     string // required
	Address  string
	Phone    string
	Email    string
	Birthday string // optional, YYYY-MM-DD
}

// ContactAddOutput contains the result of the ContactAdd operation.
type ContactAddOutput struct {
	ID string `json:"id"`
}

// ContactAdd creates a new contact. Email, phone, and birthday are validated
// before the store is touched; nothing is written on a validation failure.
func ContactAdd(ctx context.Context, database *sql.DB, input ContactAddInput) (*ContactAddOutput, error) {
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)
	phone := strings.TrimSpace(input.Phone)
	email := strings.TrimSpace(input.Email)

	nameNorm := record.Normalize(name)
	if nameNorm == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}

	if err := record.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := record.ValidatePhone(phone); err != nil {
		return nil, err
	}

	var birthday *string
	if strings.TrimSpace(input.Birthday) != "" {
		canonical, err := record.ParseBirthday(strings.TrimSpace(input.Birthday))
		if err != nil {
			return nil, err
		}
		birthday = &canonical
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	c := &record.Contact{
		ID:        id,
		NameRaw:   name,
		NameNorm:  nameNorm,
		Address:   address,
		Phone:     phone,
		Email:     email,
		Birthday:  birthday,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := db.InsertContact(ctx, database, c); err != nil {
		return nil, err
	}

	return &ContactAddOutput{ID: id}, nil
}
