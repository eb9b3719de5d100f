package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/keeper/internal/db"
	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/record"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// clampLimit applies the default and upper bound to a caller-supplied limit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// generateULID generates a new ULID for a freshly created record.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// resolveContact locates exactly one contact by ID or by name predicate.
// Rules:
// - Exactly one addressing mode: id OR name. Both → ErrAmbiguousAddressing.
// - Neither → ErrInvalidRequest.
// - Name matching is normalized-exact; zero matches → NOT_FOUND, more than
//   one → AMBIGUOUS_MATCH carrying every candidate ID.
func resolveContact(ctx context.Context, database *sql.DB, id, name string) (*record.Contact, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	if id != "" && name != "" {
		return nil, errors.NewAmbiguousAddressing()
	}
	if id == "" && name == "" {
		return nil, errors.NewInvalidRequest("must specify either id or name")
	}

	if id != "" {
		return db.GetContactByID(ctx, database, id)
	}

	nameNorm := record.Normalize(name)
	if nameNorm == "" {
		return nil, errors.NewInvalidRequest("name must not be empty")
	}

	matches, err := db.FindContactsByName(ctx, database, nameNorm)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, errors.NewNotFound(name)
	case 1:
		return &matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, errors.NewAmbiguousMatch(name, ids)
	}
}

// resolveNote locates exactly one note by ID or by text predicate.
// Text matching is case-insensitive substring; the same zero/one/many rules
// as resolveContact apply.
func resolveNote(ctx context.Context, database *sql.DB, id, text string) (*record.Note, error) {
	id = strings.TrimSpace(id)
	text = strings.TrimSpace(text)

	if id != "" && text != "" {
		return nil, errors.NewAmbiguousAddressing()
	}
	if id == "" && text == "" {
		return nil, errors.NewInvalidRequest("must specify either id or text")
	}

	if id != "" {
		return db.GetNoteByID(ctx, database, id)
	}

	matches, err := db.FindNotesByText(ctx, database, text)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, errors.NewNotFound(text)
	case 1:
		return &matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, errors.NewAmbiguousMatch(text, ids)
	}
}
