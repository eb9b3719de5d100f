package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/record"
)

const noteColumns = "id, text, tags_json, created_at, updated_at"

// InsertNote stores a new note in the database.
func InsertNote(ctx context.Context, db *sql.DB, n *record.Note) error {
	tagsJSON, err := marshalTags(n.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO notes (` + noteColumns + `) VALUES (?, ?, ?, ?, ?)`

	_, err = db.ExecContext(ctx, query, n.ID, n.Text, tagsJSON, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetNoteByID retrieves a note by its ULID.
func GetNoteByID(ctx context.Context, db *sql.DB, id string) (*record.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = ?`

	row := db.QueryRowContext(ctx, query, id)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return n, nil
}

// FindNotesByText retrieves all notes whose text contains the query as a
// case-insensitive substring, in insertion order. Used for predicate
// addressing; the caller decides what multiple matches mean.
func FindNotesByText(ctx context.Context, db *sql.DB, query string) ([]record.Note, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	sqlQuery := `SELECT ` + noteColumns + ` FROM notes WHERE lower(text) LIKE ? ESCAPE '\' ORDER BY id ASC`

	rows, err := db.QueryContext(ctx, sqlQuery, pattern)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return collectNotes(rows)
}

// SearchNotesByText returns notes whose text contains the query as a
// case-insensitive substring, in insertion order, paginated.
func SearchNotesByText(ctx context.Context, db *sql.DB, query string, limit, offset int) ([]record.Note, int, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	where := `WHERE lower(text) LIKE ? ESCAPE '\'`

	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes `+where, pattern).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	listQuery := `SELECT ` + noteColumns + ` FROM notes ` + where + ` ORDER BY id ASC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, listQuery, pattern, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	notes, err := collectNotes(rows)
	if err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

// ListNotes retrieves notes in insertion order with pagination.
func ListNotes(ctx context.Context, db *sql.DB, limit, offset int) ([]record.Note, int, error) {
	var total int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes`).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY id ASC LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	notes, err := collectNotes(rows)
	if err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

// ListTaggedNotes retrieves every note that carries at least one tag, in
// insertion order. Tag matching happens in the ops layer against the
// decoded tag list; the store is small enough that a full scan of tagged
// notes is the right amount of machinery.
func ListTaggedNotes(ctx context.Context, db *sql.DB) ([]record.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE tags_json IS NOT NULL ORDER BY id ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return collectNotes(rows)
}

// UpdateNoteByID persists the mutable fields of an existing note.
// The caller is responsible for setting UpdatedAt.
func UpdateNoteByID(ctx context.Context, db *sql.DB, n *record.Note) error {
	tagsJSON, err := marshalTags(n.Tags)
	if err != nil {
		return err
	}

	query := `UPDATE notes SET text = ?, tags_json = ?, updated_at = ? WHERE id = ?`

	result, err := db.ExecContext(ctx, query, n.Text, tagsJSON, n.UpdatedAt, n.ID)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(n.ID)
	}

	return nil
}

// DeleteNoteByID removes a note. Exactly one row is deleted or the call
// fails with NOT_FOUND.
func DeleteNoteByID(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
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

// StreamNotesForExport returns a rows cursor over every note in insertion
// order. The caller owns the cursor and must Close it.
func StreamNotesForExport(ctx context.Context, db *sql.DB) (*sql.Rows, error) {
	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY id ASC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// ScanNoteFromRows scans the current row of an export cursor.
func ScanNoteFromRows(rows *sql.Rows) (*record.Note, error) {
	return scanNote(rows)
}

// marshalTags encodes a tag list as JSON, or NULL for an empty list.
func marshalTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// scanNote scans a single row into a Note struct.
func scanNote(row scanner) (*record.Note, error) {
	var (
		n        record.Note
		tagsJSON sql.NullString
	)

	err := row.Scan(&n.ID, &n.Text, &tagsJSON, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &n.Tags); err != nil {
			return nil, err
		}
	}

	return &n, nil
}

// collectNotes drains rows into a slice of notes.
func collectNotes(rows *sql.Rows) ([]record.Note, error) {
	notes := make([]record.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return notes, nil
}
