package mcp

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/keeper/internal/config"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"contact", "note", "birthday", "records"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"contact_add": {
		def:     contactAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContactAdd },
	},
	"contact_get": {
		def:     contactGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContactGet },
	},
	"contact_search": {
		def:     contactSearchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContactSearch },
	},
	"contact_update": {
		def:     contactUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContactUpdate },
	},
	"contact_delete": {
		def:     contactDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContactDelete },
	},
	"contact_list": {
		def:     contactListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleContactList },
	},
	"note_add": {
		def:     noteAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteAdd },
	},
	"note_get": {
		def:     noteGetToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteGet },
	},
	"note_search": {
		def:     noteSearchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteSearch },
	},
	"note_update": {
		def:     noteUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteUpdate },
	},
	"note_delete": {
		def:     noteDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteDelete },
	},
	"note_list": {
		def:     noteListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNoteList },
	},
	"birthday_upcoming": {
		def:     birthdayUpcomingToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBirthdayUpcoming },
	},
	"birthday_all": {
		def:     birthdayAllToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBirthdayAll },
	},
	"records_export": {
		def:     recordsExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"records_import": {
		def:     recordsImportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleImport },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "contact_add" → "contact").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		typ := GetTypeForTool(name)
		if typeSet[typ] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates a new MCP server with Keeper tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"keeper",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg)

	// Build set of disabled tools: first expand types, then add individual tools
	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, version string) error {
	s := NewServer(db, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
