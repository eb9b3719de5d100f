package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Names follow the "type_action" pattern so disabled_types
// in the config can switch off a whole record type at once.

var contactAddToolDef = mcp.NewTool("contact_add",
	mcp.WithDescription("Add a new contact. Name is required; email, phone, and birthday are validated before anything is stored."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Contact name")),
	mcp.WithString("address", mcp.Description("Postal address")),
	mcp.WithString("phone", mcp.Description("Phone number (digits, spaces, optional leading +)")),
	mcp.WithString("email", mcp.Description("Email address")),
	mcp.WithString("birthday", mcp.Description("Birth date in YYYY-MM-DD form")),
)

var contactGetToolDef = mcp.NewTool("contact_get",
	mcp.WithDescription("Retrieve a single contact by id or by exact name. Provide exactly one of id or name."),
	mcp.WithString("id", mcp.Description("Contact ID")),
	mcp.WithString("name", mcp.Description("Contact name (case-insensitive exact match)")),
)

var contactSearchToolDef = mcp.NewTool("contact_search",
	mcp.WithDescription("Search contacts by a case-insensitive substring of name, address, phone, or email."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search string")),
	mcp.WithNumber("limit", mcp.Description("Max results (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Results to skip (default 0)")),
)

var contactUpdateToolDef = mcp.NewTool("contact_update",
	mcp.WithDescription("Update an existing contact. Address by id or name; only supplied fields change. An empty birthday string clears the birthday."),
	mcp.WithString("id", mcp.Description("Contact ID")),
	mcp.WithString("name", mcp.Description("Contact name (case-insensitive exact match)")),
	mcp.WithString("new_name", mcp.Description("New contact name")),
	mcp.WithString("address", mcp.Description("New postal address")),
	mcp.WithString("phone", mcp.Description("New phone number")),
	mcp.WithString("email", mcp.Description("New email address")),
	mcp.WithString("birthday", mcp.Description("New birth date in YYYY-MM-DD form, or empty to clear")),
)

var contactDeleteToolDef = mcp.NewTool("contact_delete",
	mcp.WithDescription("Delete exactly one contact by id or by exact name. A name matching several contacts is rejected."),
	mcp.WithString("id", mcp.Description("Contact ID")),
	mcp.WithString("name", mcp.Description("Contact name (case-insensitive exact match)")),
)

var contactListToolDef = mcp.NewTool("contact_list",
	mcp.WithDescription("List contacts in insertion order with pagination."),
	mcp.WithNumber("limit", mcp.Description("Max results (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Results to skip (default 0)")),
)

var noteAddToolDef = mcp.NewTool("note_add",
	mcp.WithDescription("Add a new note. Text is required; tags are normalized and deduplicated."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Note content")),
	mcp.WithArray("tags", mcp.Description("Tags to attach"), mcp.Items(map[string]any{"type": "string"})),
)

var noteGetToolDef = mcp.NewTool("note_get",
	mcp.WithDescription("Retrieve a single note by id or by a text substring matching exactly one note."),
	mcp.WithString("id", mcp.Description("Note ID")),
	mcp.WithString("text", mcp.Description("Substring of the note text (must match exactly one note)")),
)

var noteSearchToolDef = mcp.NewTool("note_search",
	mcp.WithDescription("Search notes. Mode 'text' matches a substring of the note text, 'tags' matches notes carrying any of the given tags, 'any' matches text or tag substrings."),
	mcp.WithString("mode", mcp.Description("Search mode: text (default), tags, or any")),
	mcp.WithString("query", mcp.Description("Search string (text/any modes)")),
	mcp.WithArray("tags", mcp.Description("Tags to match (tags mode)"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithNumber("limit", mcp.Description("Max results (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Results to skip (default 0)")),
)

var noteUpdateToolDef = mcp.NewTool("note_update",
	mcp.WithDescription("Update an existing note. Address by id or text substring; only supplied fields change. An empty tags array clears all tags."),
	mcp.WithString("id", mcp.Description("Note ID")),
	mcp.WithString("text", mcp.Description("Substring of the note text (must match exactly one note)")),
	mcp.WithString("new_text", mcp.Description("New note content")),
	mcp.WithArray("tags", mcp.Description("Replacement tag list (empty clears all tags)"), mcp.Items(map[string]any{"type": "string"})),
)

var noteDeleteToolDef = mcp.NewTool("note_delete",
	mcp.WithDescription("Delete exactly one note by id or by a text substring matching exactly one note."),
	mcp.WithString("id", mcp.Description("Note ID")),
	mcp.WithString("text", mcp.Description("Substring of the note text (must match exactly one note)")),
)

var noteListToolDef = mcp.NewTool("note_list",
	mcp.WithDescription("List notes in insertion order with pagination."),
	mcp.WithNumber("limit", mcp.Description("Max results (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Results to skip (default 0)")),
)

var birthdayUpcomingToolDef = mcp.NewTool("birthday_upcoming",
	mcp.WithDescription("List contacts whose next birthday falls within the given number of days, sorted by distance. 0 means today."),
	mcp.WithNumber("days", mcp.Description("Window size in days (default from config, usually 7)")),
)

var birthdayAllToolDef = mcp.NewTool("birthday_all",
	mcp.WithDescription("List every contact that has a birthday, sorted by birth date, with days until the next occurrence."),
)

var recordsExportToolDef = mcp.NewTool("records_export",
	mcp.WithDescription("Export all contacts and notes to a JSONL file. Defaults to a timestamped file under ~/.keeper/exports."),
	mcp.WithString("path", mcp.Description("Destination path (.jsonl, must be directly in an allowed directory)")),
)

var recordsImportToolDef = mcp.NewTool("records_import",
	mcp.WithDescription("Import contacts and notes from a JSONL export file. Mode 'skip' (default) keeps existing records on ID collision; 'replace' overwrites them."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source path (.jsonl)")),
	mcp.WithString("mode", mcp.Description("Collision mode: skip (default) or replace")),
)
