package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/keeper/internal/config"
	"github.com/hpungsan/keeper/internal/db"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	return database, cfg
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultJSON unmarshals the text content of a successful result.
func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("content is not TextContent")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	return payload
}

// assertErrorCode checks that an error result carries the expected code.
func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	payload := resultJSON(t, result)
	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error object in payload: %v", payload)
	}
	code, _ := errorObj["code"].(string)
	if code != expectedCode {
		t.Errorf("error code = %q, want %q", code, expectedCode)
	}
}

func TestHandleContactAdd(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "valid contact",
			args: map[string]any{
				"name":     "Ana Santos",
				"email":    "ana.santos@example.com",
				"birthday": "2001-03-10",
			},
			wantError: false,
		},
		{
			name:      "missing name",
			args:      map[string]any{"email": "ana@example.com"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "bad email",
			args: map[string]any{
				"name":  "Bruno",
				"email": "not-an-email",
			},
			wantError: true,
			errorCode: "VALIDATION",
		},
		{
			name: "bad birthday",
			args: map[string]any{
				"name":     "Bruno",
				"birthday": "10/03/2001",
			},
			wantError: true,
			errorCode: "VALIDATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleContactAdd(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Error("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error result")
			}
		})
	}
}

func TestHandleContactGet_RoundTrip(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	addResult, err := h.HandleContactAdd(ctx, makeRequest(map[string]any{
		"name": "Ana Santos",
	}))
	if err != nil || addResult.IsError {
		t.Fatalf("setup add failed: %v %v", err, addResult)
	}
	id := resultJSON(t, addResult)["id"].(string)

	getResult, err := h.HandleContactGet(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if getResult.IsError {
		t.Fatal("expected success, got error result")
	}

	// Embedded record fields marshal with Go field names
	payload := resultJSON(t, getResult)
	if payload["NameRaw"] != "Ana Santos" {
		t.Errorf("payload does not carry the contact name: %v", payload)
	}
}

func TestHandleContactGet_NotFound(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	result, err := h.HandleContactGet(context.Background(), makeRequest(map[string]any{
		"name": "nobody",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestHandleContactDelete_AmbiguousMatchDetails(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := h.HandleContactAdd(ctx, makeRequest(map[string]any{"name": "Ana"}))
		if err != nil || result.IsError {
			t.Fatalf("setup add failed: %v %v", err, result)
		}
	}

	result, err := h.HandleContactDelete(ctx, makeRequest(map[string]any{"name": "Ana"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	assertErrorCode(t, result, "AMBIGUOUS_MATCH")

	// Candidate IDs are surfaced so the caller can retry by ID
	payload := resultJSON(t, result)
	errorObj := payload["error"].(map[string]any)
	details, ok := errorObj["details"].(map[string]any)
	if !ok {
		t.Fatalf("no details in error object: %v", errorObj)
	}
	ids, ok := details["candidate_ids"].([]any)
	if !ok || len(ids) != 2 {
		t.Errorf("candidate_ids = %v, want 2 entries", details["candidate_ids"])
	}
}

func TestHandleNoteSearch_TagsMode(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	addResult, err := h.HandleNoteAdd(ctx, makeRequest(map[string]any{
		"text": "tagged note",
		"tags": []any{"Work", "urgent"},
	}))
	if err != nil || addResult.IsError {
		t.Fatalf("setup add failed: %v %v", err, addResult)
	}

	searchResult, err := h.HandleNoteSearch(ctx, makeRequest(map[string]any{
		"mode": "tags",
		"tags": []any{"work"},
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if searchResult.IsError {
		t.Fatal("expected success, got error result")
	}

	payload := resultJSON(t, searchResult)
	items, ok := payload["items"].([]any)
	if !ok || len(items) != 1 {
		t.Errorf("items = %v, want 1 entry", payload["items"])
	}
}

func TestHandleBirthdayUpcoming_DefaultDaysFromConfig(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	// No days argument: the config default applies and the call succeeds
	result, err := h.HandleBirthdayUpcoming(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	payload := resultJSON(t, result)
	if int(payload["days"].(float64)) != cfg.UpcomingDaysDefault {
		t.Errorf("days = %v, want config default %d", payload["days"], cfg.UpcomingDaysDefault)
	}
}

func TestHandleImport_InvalidMode(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	result, err := h.HandleImport(context.Background(), makeRequest(map[string]any{
		"path": "/tmp/whatever.jsonl",
		"mode": "merge",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestToolRegistry_NamesFollowTypePattern(t *testing.T) {
	known := make(map[string]bool, len(KnownTypes))
	for _, typ := range KnownTypes {
		known[typ] = true
	}

	for _, name := range AllToolNames() {
		typ := GetTypeForTool(name)
		if !known[typ] {
			t.Errorf("tool %q has unknown type %q", name, typ)
		}
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"contact_add", "bogus_tool"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown = %v, want [bogus_tool]", unknown)
	}
}

func TestValidateDisabledTypes(t *testing.T) {
	unknown := ValidateDisabledTypes([]string{"contact", "reminder"})
	if len(unknown) != 1 || unknown[0] != "reminder" {
		t.Errorf("unknown = %v, want [reminder]", unknown)
	}
}

func TestExpandTypesToTools(t *testing.T) {
	tools := ExpandTypesToTools([]string{"birthday"})
	if len(tools) != 2 {
		t.Errorf("tools = %v, want birthday_upcoming and birthday_all", tools)
	}
	for _, name := range tools {
		if GetTypeForTool(name) != "birthday" {
			t.Errorf("tool %q should belong to type birthday", name)
		}
	}
}
