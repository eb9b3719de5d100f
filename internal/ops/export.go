package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/keeper/internal/config"
	"github.com/hpungsan/keeper/internal/db"
	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/record"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: ~/.keeper/exports/keeper-<timestamp>.jsonl
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Contacts   int    `json:"contacts"`
	Notes      int    `json:"notes"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader represents the header line in a JSONL export file.
type ExportHeader struct {
	KeeperExport  bool   `json:"_keeper_export"`
	SchemaVersion string `json:"schema_version"`
	ExportedAt    int64  `json:"exported_at"`
}

// Export writes every contact and note to a JSONL file: a header line,
// then one typed record per line. The file is written to a temp path and
// renamed into place so a failure never clobbers an existing export.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	exportPath := input.Path
	if exportPath == "" {
		var err error
		exportPath, err = defaultExportPath(now)
		if err != nil {
			return nil, err
		}
	}

	// Validate ALL paths (both user-provided and default) for security.
	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	// Ensure parent directory exists
	dir := filepath.Dir(exportPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	// Write to temp file first, then atomic rename to preserve existing file on failure
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	// Clean up temp file on failure (original file is preserved)
	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	header := ExportHeader{
		KeeperExport:  true,
		SchemaVersion: "1.0",
		ExportedAt:    exportedAt,
	}
	if err := writeJSONLine(file, header); err != nil {
		return nil, err
	}

	contactCount, err := exportContacts(ctx, database, file)
	if err != nil {
		return nil, err
	}

	noteCount, err := exportNotes(ctx, database, file)
	if err != nil {
		return nil, err
	}

	if err := file.Sync(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Close before atomic replace (required on Windows; fine elsewhere).
	if err := file.Close(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// Check if destination is a symlink (os.Rename would follow it)
	if info, err := os.Lstat(exportPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	// Finalize export by renaming temp file into place.
	//
	// Note: On Windows, os.Rename fails if the destination exists. We intentionally
	// fail safely (preserving the existing file) instead of doing a non-atomic
	// delete+rename that could lose the original if rename fails.
	if err := os.Rename(tempPath, exportPath); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(exportPath); statErr == nil {
				return nil, errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return &ExportOutput{
		Path:       exportPath,
		Contacts:   contactCount,
		Notes:      noteCount,
		ExportedAt: exportedAt,
	}, nil
}

// exportContacts streams contact rows into the export file.
func exportContacts(ctx context.Context, database *sql.DB, file *os.File) (int, error) {
	rows, err := db.StreamContactsForExport(ctx, database)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		select {
		case <-ctx.Done():
			return 0, errors.NewCancelled("export")
		default:
		}

		c, err := db.ScanContactFromRows(rows)
		if err != nil {
			return 0, errors.NewInternal(err)
		}

		if err := writeJSONLine(file, record.ContactToExportRecord(c)); err != nil {
			return 0, err
		}
		count++
	}

	if err := rows.Err(); err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// exportNotes streams note rows into the export file.
func exportNotes(ctx context.Context, database *sql.DB, file *os.File) (int, error) {
	rows, err := db.StreamNotesForExport(ctx, database)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		select {
		case <-ctx.Done():
			return 0, errors.NewCancelled("export")
		default:
		}

		n, err := db.ScanNoteFromRows(rows)
		if err != nil {
			return 0, errors.NewInternal(err)
		}

		if err := writeJSONLine(file, record.NoteToExportRecord(n)); err != nil {
			return 0, err
		}
		count++
	}

	if err := rows.Err(); err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// writeJSONLine marshals v and writes it as one newline-terminated line.
func writeJSONLine(file *os.File, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternal(err)
	}
	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if _, err := file.Write([]byte("\n")); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// defaultExportPath generates the default export path.
// Format: ~/.keeper/exports/keeper-<timestamp>.jsonl
func defaultExportPath(now time.Time) (string, error) {
	exportsDir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}

	timestamp := now.Format("2006-01-02T150405")
	filename := fmt.Sprintf("keeper-%s.jsonl", timestamp)
	return filepath.Join(exportsDir, filename), nil
}
