package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/record"
)

func testNote(id, text string, tags ...string) *record.Note {
	return &record.Note{
		ID:        id,
		Text:      text,
		Tags:      tags,
		CreatedAt: 1700000000,
		UpdatedAt: 1700000000,
	}
}

func TestInsertAndGetNote(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	n := testNote("01BBBBBBBBBBBBBBBBBBBBBBBB", "buy milk", "shopping")
	if err := InsertNote(ctx, database, n); err != nil {
		t.Fatalf("InsertNote failed: %v", err)
	}

	got, err := GetNoteByID(ctx, database, n.ID)
	if err != nil {
		t.Fatalf("GetNoteByID failed: %v", err)
	}
	if got.Text != "buy milk" {
		t.Errorf("Text = %q, want %q", got.Text, "buy milk")
	}
	if len(got.Tags) != 1 || got.Tags[0] != "shopping" {
		t.Errorf("Tags = %v, want [shopping]", got.Tags)
	}
}

func TestGetNoteByID_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := GetNoteByID(context.Background(), database, "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestInsertNote_NoTags(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	n := testNote("01BBBBBBBBBBBBBBBBBBBBBBBB", "untagged")
	if err := InsertNote(ctx, database, n); err != nil {
		t.Fatalf("InsertNote failed: %v", err)
	}

	got, err := GetNoteByID(ctx, database, n.ID)
	if err != nil {
		t.Fatalf("GetNoteByID failed: %v", err)
	}
	if got.Tags != nil {
		t.Errorf("Tags = %v, want nil", got.Tags)
	}

	// And it must not show up in the tagged scan
	tagged, err := ListTaggedNotes(ctx, database)
	if err != nil {
		t.Fatalf("ListTaggedNotes failed: %v", err)
	}
	if len(tagged) != 0 {
		t.Errorf("ListTaggedNotes = %d notes, want 0", len(tagged))
	}
}

func TestSearchNotesByText(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	notes := []*record.Note{
		testNote("01BBBBBBBBBBBBBBBBBBBBBB01", "Buy milk and eggs"),
		testNote("01BBBBBBBBBBBBBBBBBBBBBB02", "call the dentist"),
		testNote("01BBBBBBBBBBBBBBBBBBBBBB03", "buy MILK again"),
	}
	for _, n := range notes {
		if err := InsertNote(ctx, database, n); err != nil {
			t.Fatalf("InsertNote failed: %v", err)
		}
	}

	got, total, err := SearchNotesByText(ctx, database, "buy milk", 20, 0)
	if err != nil {
		t.Fatalf("SearchNotesByText failed: %v", err)
	}
	if total != 2 || len(got) != 2 {
		t.Fatalf("got %d results (total %d), want 2", len(got), total)
	}
	if got[0].ID != notes[0].ID || got[1].ID != notes[2].ID {
		t.Errorf("results out of insertion order: %q, %q", got[0].ID, got[1].ID)
	}
}

func TestFindNotesByText(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	for i, text := range []string{"pay rent", "pay electricity", "water plants"} {
		if err := InsertNote(ctx, database, testNote(fmt.Sprintf("01BBBBBBBBBBBBBBBBBBBBBB%02d", i), text)); err != nil {
			t.Fatalf("InsertNote failed: %v", err)
		}
	}

	matches, err := FindNotesByText(ctx, database, "PAY")
	if err != nil {
		t.Fatalf("FindNotesByText failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("len(matches) = %d, want 2", len(matches))
	}
}

func TestListNotes_Pagination(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := InsertNote(ctx, database, testNote(fmt.Sprintf("01BBBBBBBBBBBBBBBBBBBBBB%02d", i), fmt.Sprintf("note %d", i))); err != nil {
			t.Fatalf("InsertNote failed: %v", err)
		}
	}

	page, total, err := ListNotes(ctx, database, 2, 1)
	if err != nil {
		t.Fatalf("ListNotes failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(page) != 2 || page[0].Text != "note 1" {
		t.Errorf("page = %v, want notes 1 and 2", page)
	}
}

func TestUpdateNoteByID(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	n := testNote("01BBBBBBBBBBBBBBBBBBBBBBBB", "buy milk", "shopping")
	if err := InsertNote(ctx, database, n); err != nil {
		t.Fatalf("InsertNote failed: %v", err)
	}

	n.Text = "buy oat milk"
	n.Tags = nil
	n.UpdatedAt = 1700000100
	if err := UpdateNoteByID(ctx, database, n); err != nil {
		t.Fatalf("UpdateNoteByID failed: %v", err)
	}

	got, err := GetNoteByID(ctx, database, n.ID)
	if err != nil {
		t.Fatalf("GetNoteByID failed: %v", err)
	}
	if got.Text != "buy oat milk" {
		t.Errorf("Text = %q, want %q", got.Text, "buy oat milk")
	}
	if got.Tags != nil {
		t.Errorf("Tags = %v, want nil (cleared)", got.Tags)
	}
}

func TestUpdateNoteByID_NotFound(t *testing.T) {
	database := testDB(t)

	err := UpdateNoteByID(context.Background(), database, testNote("missing", "x"))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestDeleteNoteByID(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	n := testNote("01BBBBBBBBBBBBBBBBBBBBBBBB", "buy milk")
	if err := InsertNote(ctx, database, n); err != nil {
		t.Fatalf("InsertNote failed: %v", err)
	}

	if err := DeleteNoteByID(ctx, database, n.ID); err != nil {
		t.Fatalf("DeleteNoteByID failed: %v", err)
	}

	err := DeleteNoteByID(ctx, database, n.ID)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second delete err = %v, want NOT_FOUND", err)
	}
}
