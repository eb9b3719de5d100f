package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/keeper/internal/config"
	"github.com/hpungsan/keeper/internal/db"
	"github.com/hpungsan/keeper/internal/ops"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// runApp runs the CLI app with captured stdout.
func runApp(t *testing.T, database *sql.DB, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	app := newCLIApp(database, cfg)

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"keeper"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// TestParseTags tests the parseTags helper function.
func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single tag",
			input:    "foo",
			expected: []string{"foo"},
		},
		{
			name:     "multiple tags",
			input:    "foo,bar,baz",
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "tags with spaces",
			input:    " foo , bar , baz ",
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "empty tags filtered",
			input:    "foo,,bar,",
			expected: []string{"foo", "bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseTags(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("expected %d tags, got %d", len(tt.expected), len(result))
				return
			}
			for i, tag := range result {
				if tag != tt.expected[i] {
					t.Errorf("expected tag[%d]=%q, got %q", i, tt.expected[i], tag)
				}
			}
		})
	}
}

// TestCLIContactAdd tests the contact add command.
func TestCLIContactAdd(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	out, err := runApp(t, database, cfg, "contact", "add",
		"--name=Ana Santos", "--email=ana@example.com", "--birthday=2001-03-10")
	if err != nil {
		t.Fatalf("contact add failed: %v", err)
	}

	var output ops.ContactAddOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if output.ID == "" {
		t.Error("expected non-empty ID")
	}
}

// TestCLIContactGet tests the contact get command.
func TestCLIContactGet(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	addOutput, err := ops.ContactAdd(context.Background(), database, ops.ContactAddInput{
		Name: "Ana Santos",
	})
	if err != nil {
		t.Fatalf("failed to add test contact: %v", err)
	}

	t.Run("get by name", func(t *testing.T) {
		out, err := runApp(t, database, cfg, "contact", "get", "--name=ana santos")
		if err != nil {
			t.Fatalf("contact get failed: %v", err)
		}

		var output ops.ContactGetOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.ID != addOutput.ID {
			t.Errorf("expected ID=%s, got %s", addOutput.ID, output.ID)
		}
	})

	t.Run("get by positional id", func(t *testing.T) {
		out, err := runApp(t, database, cfg, "contact", "get", addOutput.ID)
		if err != nil {
			t.Fatalf("contact get failed: %v", err)
		}

		var output ops.ContactGetOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.ID != addOutput.ID {
			t.Errorf("expected ID=%s, got %s", addOutput.ID, output.ID)
		}
	})
}

// TestCLIContactUpdate tests the contact update command.
func TestCLIContactUpdate(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	addOutput, err := ops.ContactAdd(context.Background(), database, ops.ContactAddInput{
		Name:     "Ana Santos",
		Birthday: "2001-03-10",
	})
	if err != nil {
		t.Fatalf("failed to add test contact: %v", err)
	}

	// Empty --birthday clears the stored date
	_, err = runApp(t, database, cfg, "contact", "update", addOutput.ID,
		"--address=12 Rose Street", "--birthday=")
	if err != nil {
		t.Fatalf("contact update failed: %v", err)
	}

	getOutput, err := ops.ContactGet(context.Background(), database, ops.ContactGetInput{ID: addOutput.ID})
	if err != nil {
		t.Fatalf("failed to fetch updated contact: %v", err)
	}
	if getOutput.Address != "12 Rose Street" {
		t.Errorf("expected address to change, got %q", getOutput.Address)
	}
	if getOutput.Birthday != nil {
		t.Errorf("expected birthday cleared, got %v", *getOutput.Birthday)
	}
}

// TestCLIContactDelete tests the contact delete command.
func TestCLIContactDelete(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	addOutput, err := ops.ContactAdd(context.Background(), database, ops.ContactAddInput{
		Name: "Ana Santos",
	})
	if err != nil {
		t.Fatalf("failed to add test contact: %v", err)
	}

	out, err := runApp(t, database, cfg, "contact", "delete", "--name=Ana Santos")
	if err != nil {
		t.Fatalf("contact delete failed: %v", err)
	}

	var output ops.ContactDeleteOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if !output.Deleted {
		t.Error("expected deleted=true")
	}
	if output.ID != addOutput.ID {
		t.Errorf("expected ID=%s, got %s", addOutput.ID, output.ID)
	}
}

// TestCLIContactList tests the contact list command.
func TestCLIContactList(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	names := []string{"Ana Santos", "Bruno Costa", "Clara Dias"}
	for _, name := range names {
		if _, err := ops.ContactAdd(context.Background(), database, ops.ContactAddInput{Name: name}); err != nil {
			t.Fatalf("failed to add test contact: %v", err)
		}
	}

	out, err := runApp(t, database, cfg, "contact", "list")
	if err != nil {
		t.Fatalf("contact list failed: %v", err)
	}

	var output ops.ContactListOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(output.Items))
	}
	if output.Pagination.Total != 3 {
		t.Errorf("expected total=3, got %d", output.Pagination.Total)
	}
}

// TestCLINoteAddAndSearch tests the note add and search commands.
func TestCLINoteAddAndSearch(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	out, err := runApp(t, database, cfg, "note", "add", "--tags=work,urgent", "finish", "the", "report")
	if err != nil {
		t.Fatalf("note add failed: %v", err)
	}

	var addOutput ops.NoteAddOutput
	if err := json.Unmarshal([]byte(out), &addOutput); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if addOutput.ID == "" {
		t.Error("expected non-empty ID")
	}

	t.Run("text search", func(t *testing.T) {
		out, err := runApp(t, database, cfg, "note", "search", "report")
		if err != nil {
			t.Fatalf("note search failed: %v", err)
		}

		var output ops.NoteSearchOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(output.Items))
		}
		if output.Items[0].Text != "finish the report" {
			t.Errorf("positional args should join into text, got %q", output.Items[0].Text)
		}
	})

	t.Run("tag search", func(t *testing.T) {
		out, err := runApp(t, database, cfg, "note", "search", "--mode=tags", "--tags=urgent")
		if err != nil {
			t.Fatalf("note search failed: %v", err)
		}

		var output ops.NoteSearchOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Items) != 1 {
			t.Errorf("expected 1 item, got %d", len(output.Items))
		}
	})
}

// TestCLIBirthdays tests the birthdays command.
func TestCLIBirthdays(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	if _, err := ops.ContactAdd(context.Background(), database, ops.ContactAddInput{
		Name:     "Ana Santos",
		Birthday: "2001-03-10",
	}); err != nil {
		t.Fatalf("failed to add test contact: %v", err)
	}

	t.Run("all", func(t *testing.T) {
		out, err := runApp(t, database, cfg, "birthdays", "--all")
		if err != nil {
			t.Fatalf("birthdays command failed: %v", err)
		}

		var output ops.BirthdayAllOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Items) != 1 {
			t.Errorf("expected 1 item, got %d", len(output.Items))
		}
	})

	t.Run("full year window finds everyone", func(t *testing.T) {
		out, err := runApp(t, database, cfg, "birthdays", "--days=366")
		if err != nil {
			t.Fatalf("birthdays command failed: %v", err)
		}

		var output ops.BirthdayUpcomingOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if len(output.Items) != 1 {
			t.Errorf("expected 1 item, got %d", len(output.Items))
		}
		if output.Days != 366 {
			t.Errorf("expected days=366, got %d", output.Days)
		}
	})
}

// TestCLIExportImport tests the export and import commands.
func TestCLIExportImport(t *testing.T) {
	database := setupTestDB(t)

	exportDir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{exportDir}

	if _, err := ops.ContactAdd(context.Background(), database, ops.ContactAddInput{Name: "Ana Santos"}); err != nil {
		t.Fatalf("failed to add test contact: %v", err)
	}
	if _, err := ops.NoteAdd(context.Background(), database, ops.NoteAddInput{Text: "buy groceries"}); err != nil {
		t.Fatalf("failed to add test note: %v", err)
	}

	exportPath := filepath.Join(exportDir, "export.jsonl")

	t.Run("export", func(t *testing.T) {
		out, err := runApp(t, database, cfg, "export", "--path="+exportPath)
		if err != nil {
			t.Fatalf("export command failed: %v", err)
		}

		var output ops.ExportOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Contacts != 1 || output.Notes != 1 {
			t.Errorf("expected 1 contact and 1 note, got %d and %d", output.Contacts, output.Notes)
		}
		if output.Path != exportPath {
			t.Errorf("expected path=%s, got %s", exportPath, output.Path)
		}
	})

	// Import into a fresh database
	database2 := setupTestDB(t)

	t.Run("import", func(t *testing.T) {
		out, err := runApp(t, database2, cfg, "import", "--path="+exportPath)
		if err != nil {
			t.Fatalf("import command failed: %v", err)
		}

		var output ops.ImportOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Contacts != 1 || output.Notes != 1 {
			t.Errorf("expected 1 contact and 1 note imported, got %d and %d", output.Contacts, output.Notes)
		}
	})
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	t.Run("get not found returns error", func(t *testing.T) {
		_, err := runApp(t, database, cfg, "contact", "get", "--name=nonexistent")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("delete not found returns error", func(t *testing.T) {
		_, err := runApp(t, database, cfg, "note", "delete", "--text=nonexistent")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("invalid import mode returns error", func(t *testing.T) {
		_, err := runApp(t, database, cfg, "import", "--path=/tmp/x.jsonl", "--mode=merge")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("negative birthday window returns error", func(t *testing.T) {
		_, err := runApp(t, database, cfg, "birthdays", "--days=-1")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"keeper"},
			expected: false,
		},
		{
			name:     "contact command",
			args:     []string{"keeper", "contact"},
			expected: true,
		},
		{
			name:     "birthdays command",
			args:     []string{"keeper", "birthdays"},
			expected: true,
		},
		{
			name:     "help flag",
			args:     []string{"keeper", "--help"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"keeper", "--version"},
			expected: true,
		},
		{
			name:     "short help flag",
			args:     []string{"keeper", "-h"},
			expected: true,
		},
		{
			name:     "short version flag",
			args:     []string{"keeper", "-v"},
			expected: true,
		},
		{
			name:     "unknown arg defaults to MCP",
			args:     []string{"keeper", "--unknown"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save and restore os.Args
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isCLIMode()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"keeper"},
			expected: false,
		},
		{
			name:     "help flag",
			args:     []string{"keeper", "--help"},
			expected: true,
		},
		{
			name:     "help subcommand",
			args:     []string{"keeper", "help"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"keeper", "--version"},
			expected: true,
		},
		{
			name:     "contact command is not help",
			args:     []string{"keeper", "contact"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isHelpOrVersion()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestBaseDir tests the KEEPER_HOME override.
func TestBaseDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv("KEEPER_HOME", "/custom/keeper")
		dir, err := baseDir()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dir != "/custom/keeper" {
			t.Errorf("expected /custom/keeper, got %s", dir)
		}
	})

	t.Run("default under home", func(t *testing.T) {
		t.Setenv("KEEPER_HOME", "")
		dir, err := baseDir()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Base(dir) != ".keeper" {
			t.Errorf("expected path ending in .keeper, got %s", dir)
		}
	})
}
