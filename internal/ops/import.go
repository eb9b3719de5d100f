package ops

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hpungsan/keeper/internal/config"
	"github.com/hpungsan/keeper/internal/db"
	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/record"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeSkip    ImportMode = "skip"    // keep existing record on ID collision
	ImportModeReplace ImportMode = "replace" // overwrite existing record on ID collision
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: skip
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Contacts int           `json:"contacts"`
	Notes    int           `json:"notes"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Line    int    `json:"line"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import reads a JSONL export file and loads its contacts and notes into
// the store. Malformed lines are reported, never fatal; a collision on ID
// is skipped or replaced according to the mode.
func Import(ctx context.Context, database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeSkip
	}
	if input.Mode != ImportModeSkip && input.Mode != ImportModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: skip, replace")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.KeeperError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	lines, parseErrors := parseExportFile(file)

	out := &ImportOutput{
		Errors:  parseErrors,
		Skipped: len(parseErrors),
	}

	for _, ln := range lines {
		select {
		case <-ctx.Done():
			return nil, errors.NewCancelled("import")
		default:
		}

		switch ln.rec.Type {
		case record.ExportTypeContact:
			if err := importContact(ctx, database, input.Mode, ln, out); err != nil {
				return nil, err
			}
		case record.ExportTypeNote:
			if err := importNote(ctx, database, input.Mode, ln, out); err != nil {
				return nil, err
			}
		default:
			out.Errors = append(out.Errors, ImportError{
				Line:    ln.num,
				ID:      ln.rec.ID,
				Code:    "INVALID_RECORD",
				Message: fmt.Sprintf("unknown record type %q", ln.rec.Type),
			})
			out.Skipped++
		}
	}

	return out, nil
}

// parsedLine pairs an export record with its 1-based line number for error
// reporting.
type parsedLine struct {
	num int
	rec record.ExportRecord
}

// parseExportFile parses a JSONL export file into data lines. The header
// line is recognized and dropped; lines that are not valid JSON or lack an
// ID are reported as parse errors.
func parseExportFile(file *os.File) ([]parsedLine, []ImportError) {
	var lines []parsedLine
	var parseErrors []ImportError

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		raw := scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}

		var rec record.ExportRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		// Skip header line
		if rec.KeeperExport {
			continue
		}

		if rec.ID == "" {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "INVALID_RECORD",
				Message: "missing id field",
			})
			continue
		}

		lines = append(lines, parsedLine{num: lineNum, rec: rec})
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return lines, parseErrors
}

// importContact validates and stores one contact line.
func importContact(ctx context.Context, database *sql.DB, mode ImportMode, ln parsedLine, out *ImportOutput) error {
	c := ln.rec.ToContact()

	if err := validateImportedContact(c); err != nil {
		out.Errors = append(out.Errors, ImportError{
			Line:    ln.num,
			ID:      c.ID,
			Code:    "INVALID_RECORD",
			Message: err.Error(),
		})
		out.Skipped++
		return nil
	}

	existing, err := db.GetContactByID(ctx, database, c.ID)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return err
	}

	if existing != nil {
		if mode == ImportModeSkip {
			out.Skipped++
			return nil
		}
		if err := db.UpdateContactByID(ctx, database, c); err != nil {
			return err
		}
		out.Contacts++
		return nil
	}

	if err := db.InsertContact(ctx, database, c); err != nil {
		return err
	}
	out.Contacts++
	return nil
}

// importNote validates and stores one note line.
func importNote(ctx context.Context, database *sql.DB, mode ImportMode, ln parsedLine, out *ImportOutput) error {
	n := ln.rec.ToNote()

	if strings.TrimSpace(n.Text) == "" {
		out.Errors = append(out.Errors, ImportError{
			Line:    ln.num,
			ID:      n.ID,
			Code:    "INVALID_RECORD",
			Message: "note text must not be empty",
		})
		out.Skipped++
		return nil
	}

	existing, err := db.GetNoteByID(ctx, database, n.ID)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		return err
	}

	if existing != nil {
		if mode == ImportModeSkip {
			out.Skipped++
			return nil
		}
		if err := db.UpdateNoteByID(ctx, database, n); err != nil {
			return err
		}
		out.Notes++
		return nil
	}

	if err := db.InsertNote(ctx, database, n); err != nil {
		return err
	}
	out.Notes++
	return nil
}

// validateImportedContact applies the same field rules as ContactAdd so a
// hand-edited export cannot smuggle invalid data into the store.
func validateImportedContact(c *record.Contact) error {
	if strings.TrimSpace(c.NameRaw) == "" {
		return fmt.Errorf("contact name must not be empty")
	}
	if err := record.ValidateEmail(c.Email); err != nil {
		return err
	}
	if err := record.ValidatePhone(c.Phone); err != nil {
		return err
	}
	if c.Birthday != nil {
		canonical, err := record.ParseBirthday(*c.Birthday)
		if err != nil {
			return err
		}
		c.Birthday = &canonical
	}
	return nil
}
