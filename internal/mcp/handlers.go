package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/keeper/internal/config"
	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// ContactAddRequest represents the arguments for contact_add.
type ContactAddRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	Birthday string `json:"birthday,omitempty"`
}

// ContactGetRequest represents the arguments for contact_get.
type ContactGetRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// ContactSearchRequest represents the arguments for contact_search.
type ContactSearchRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// ContactUpdateRequest represents the arguments for contact_update.
type ContactUpdateRequest struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name,omitempty"`
	NewName  *string `json:"new_name,omitempty"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Email    *string `json:"email,omitempty"`
	Birthday *string `json:"birthday,omitempty"`
}

// ContactDeleteRequest represents the arguments for contact_delete.
type ContactDeleteRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// ListRequest represents the arguments for contact_list and note_list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// NoteAddRequest represents the arguments for note_add.
type NoteAddRequest struct {
	Text string   `json:"text"`
	Tags []string `json:"tags,omitempty"`
}

// NoteGetRequest represents the arguments for note_get.
type NoteGetRequest struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text,omitempty"`
}

// NoteSearchRequest represents the arguments for note_search.
type NoteSearchRequest struct {
	Mode   string   `json:"mode,omitempty"`
	Query  string   `json:"query,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Limit  int      `json:"limit,omitempty"`
	Offset int      `json:"offset,omitempty"`
}

// NoteUpdateRequest represents the arguments for note_update.
type NoteUpdateRequest struct {
	ID      string    `json:"id,omitempty"`
	Text    string    `json:"text,omitempty"`
	NewText *string   `json:"new_text,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

// NoteDeleteRequest represents the arguments for note_delete.
type NoteDeleteRequest struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text,omitempty"`
}

// BirthdayUpcomingRequest represents the arguments for birthday_upcoming.
type BirthdayUpcomingRequest struct {
	Days *int `json:"days,omitempty"`
}

// ExportRequest represents the arguments for records_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for records_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// Handler implementations

// HandleContactAdd handles the contact_add tool call.
func (h *Handlers) HandleContactAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContactAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ContactAdd(ctx, h.db, ops.ContactAddInput{
		Name:     input.Name,
		Address:  input.Address,
		Phone:    input.Phone,
		Email:    input.Email,
		Birthday: input.Birthday,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleContactGet handles the contact_get tool call.
func (h *Handlers) HandleContactGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContactGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ContactGet(ctx, h.db, ops.ContactGetInput{
		ID:   input.ID,
		Name: input.Name,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleContactSearch handles the contact_search tool call.
func (h *Handlers) HandleContactSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContactSearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ContactSearch(ctx, h.db, ops.ContactSearchInput{
		Query:  input.Query,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleContactUpdate handles the contact_update tool call.
func (h *Handlers) HandleContactUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContactUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ContactUpdate(ctx, h.db, ops.ContactUpdateInput{
		ID:       input.ID,
		Name:     input.Name,
		NewName:  input.NewName,
		Address:  input.Address,
		Phone:    input.Phone,
		Email:    input.Email,
		Birthday: input.Birthday,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleContactDelete handles the contact_delete tool call.
func (h *Handlers) HandleContactDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ContactDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ContactDelete(ctx, h.db, ops.ContactDeleteInput{
		ID:   input.ID,
		Name: input.Name,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleContactList handles the contact_list tool call.
func (h *Handlers) HandleContactList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ContactList(ctx, h.db, ops.ContactListInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNoteAdd handles the note_add tool call.
func (h *Handlers) HandleNoteAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.NoteAdd(ctx, h.db, ops.NoteAddInput{
		Text: input.Text,
		Tags: input.Tags,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNoteGet handles the note_get tool call.
func (h *Handlers) HandleNoteGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.NoteGet(ctx, h.db, ops.NoteGetInput{
		ID:   input.ID,
		Text: input.Text,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNoteSearch handles the note_search tool call.
func (h *Handlers) HandleNoteSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteSearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.NoteSearch(ctx, h.db, ops.NoteSearchInput{
		Mode:   ops.NoteSearchMode(input.Mode),
		Query:  input.Query,
		Tags:   input.Tags,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNoteUpdate handles the note_update tool call.
func (h *Handlers) HandleNoteUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.NoteUpdate(ctx, h.db, ops.NoteUpdateInput{
		ID:      input.ID,
		Text:    input.Text,
		NewText: input.NewText,
		Tags:    input.Tags,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNoteDelete handles the note_delete tool call.
func (h *Handlers) HandleNoteDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NoteDeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.NoteDelete(ctx, h.db, ops.NoteDeleteInput{
		ID:   input.ID,
		Text: input.Text,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNoteList handles the note_list tool call.
func (h *Handlers) HandleNoteList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.NoteList(ctx, h.db, ops.NoteListInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBirthdayUpcoming handles the birthday_upcoming tool call.
func (h *Handlers) HandleBirthdayUpcoming(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BirthdayUpcomingRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	days := h.cfg.UpcomingDaysDefault
	if input.Days != nil {
		days = *input.Days
	}

	result, err := ops.BirthdayUpcoming(ctx, h.db, ops.BirthdayUpcomingInput{Days: days})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBirthdayAll handles the birthday_all tool call.
func (h *Handlers) HandleBirthdayAll(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.BirthdayAll(ctx, h.db, ops.BirthdayAllInput{})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the records_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the records_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(ctx, h.db, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if kErr, ok := err.(*errors.KeeperError); ok {
		errorObj := map[string]any{
			"code":    kErr.Code,
			"message": kErr.Message,
			"status":  kErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if kErr.Code != errors.ErrInternal && kErr.Details != nil {
			errorObj["details"] = kErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
