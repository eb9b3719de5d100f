package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/record"
)

const contactColumns = "id, name_raw, name_norm, address, phone, email, birthday, created_at, updated_at"

// InsertContact stores a new contact in the database.
func InsertContact(ctx context.Context, db *sql.DB, c *record.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		c.ID, c.NameRaw, c.NameNorm, c.Address, c.Phone, c.Email,
		toNullString(c.Birthday), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetContactByID retrieves a contact by its ULID.
func GetContactByID(ctx context.Context, db *sql.DB, id string) (*record.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = ?`

	row := db.QueryRowContext(ctx, query, id)
	c, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return c, nil
}

// FindContactsByName retrieves all contacts whose normalized name matches
// exactly, in insertion order. The caller decides what multiple matches mean.
func FindContactsByName(ctx context.Context, db *sql.DB, nameNorm string) ([]record.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE name_norm = ? ORDER BY id ASC`

	rows, err := db.QueryContext(ctx, query, nameNorm)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// SearchContacts returns contacts where the query is a case-insensitive
// substring of name, address, phone, or email, in insertion order.
func SearchContacts(ctx context.Context, db *sql.DB, query string, limit, offset int) ([]record.Contact, int, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	where := `
		WHERE lower(name_raw) LIKE ? ESCAPE '\'
		   OR lower(address)  LIKE ? ESCAPE '\'
		   OR lower(phone)    LIKE ? ESCAPE '\'
		   OR lower(email)    LIKE ? ESCAPE '\'
	`

	var total int
	countQuery := `SELECT COUNT(*) FROM contacts ` + where
	if err := db.QueryRowContext(ctx, countQuery, pattern, pattern, pattern, pattern).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	listQuery := `SELECT ` + contactColumns + ` FROM contacts ` + where + ` ORDER BY id ASC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, listQuery, pattern, pattern, pattern, pattern, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	contacts, err := collectContacts(rows)
	if err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// ListContacts retrieves contacts in insertion order with pagination.
func ListContacts(ctx context.Context, db *sql.DB, limit, offset int) ([]record.Contact, int, error) {
	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY id ASC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	contacts, err := collectContacts(rows)
	if err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// ListContactsWithBirthdays retrieves every contact that has a birthday,
// in insertion order. Birthday views recompute over this set on each call.
func ListContactsWithBirthdays(ctx context.Context, db *sql.DB) ([]record.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE birthday IS NOT NULL ORDER BY id ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// UpdateContactByID persists the mutable fields of an existing contact.
// The caller is responsible for setting UpdatedAt.
func UpdateContactByID(ctx context.Context, db *sql.DB, c *record.Contact) error {
	query := `
		UPDATE contacts
		SET name_raw = ?, name_norm = ?, address = ?, phone = ?, email = ?,
			birthday = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := db.ExecContext(ctx, query,
		c.NameRaw, c.NameNorm, c.Address, c.Phone, c.Email,
		toNullString(c.Birthday), c.UpdatedAt, c.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(c.ID)
	}

	return nil
}

// DeleteContactByID removes a contact. Exactly one row is deleted or the
// call fails with NOT_FOUND.
func DeleteContactByID(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// StreamContactsForExport returns a rows cursor over every contact in
// insertion order. The caller owns the cursor and must Close it.
func StreamContactsForExport(ctx context.Context, db *sql.DB) (*sql.Rows, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY id ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// ScanContactFromRows scans the current row of an export cursor.
func ScanContactFromRows(rows *sql.Rows) (*record.Contact, error) {
	return scanContact(rows)
}

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// scanContact scans a single row into a Contact struct.
func scanContact(row scanner) (*record.Contact, error) {
	var (
		c        record.Contact
		birthday sql.NullString
	)

	err := row.Scan(
		&c.ID, &c.NameRaw, &c.NameNorm, &c.Address, &c.Phone, &c.Email,
		&birthday, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Birthday = fromNullString(birthday)

	return &c, nil
}

// collectContacts drains rows into a slice of contacts.
func collectContacts(rows *sql.Rows) ([]record.Contact, error) {
	contacts := make([]record.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return contacts, nil
}
