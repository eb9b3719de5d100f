package web

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/keeper/internal/config"
	"github.com/hpungsan/keeper/internal/ops"
	"github.com/hpungsan/keeper/internal/record"
)

// Handlers holds dependencies for the web UI handlers.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleContactList serves the contact list page. An optional "q" query
// parameter switches from plain listing to substring search.
func (h *Handlers) HandleContactList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	limit := parseIntParam(r, "limit", ops.DefaultListLimit)
	offset := parseIntParam(r, "offset", 0)

	var items []record.Contact
	var pagination ops.Pagination

	if query != "" {
		result, err := ops.ContactSearch(r.Context(), h.db, ops.ContactSearchInput{
			Query:  query,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		items = result.Items
		pagination = result.Pagination
	} else {
		result, err := ops.ContactList(r.Context(), h.db, ops.ContactListInput{
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		items = result.Items
		pagination = result.Pagination
	}

	rows := make([]ContactRow, len(items))
	for i, c := range items {
		rows[i] = ContactRow{
			ID:       c.ID,
			Name:     c.NameRaw,
			Phone:    c.Phone,
			Email:    c.Email,
			Birthday: derefString(c.Birthday),
		}
	}

	h.renderer.renderPage(w, "contacts", ContactsPageData{
		PageData: PageData{
			Title:   "Contacts",
			Version: h.renderer.version,
			Nav:     "contacts",
		},
		Contacts:   rows,
		Pagination: pagination,
		Query:      query,
		HasQuery:   query != "",
	})
}

// HandleContactDetail serves a single contact page.
func (h *Handlers) HandleContactDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := ops.ContactGet(r.Context(), h.db, ops.ContactGetInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "contact_detail", ContactDetailPageData{
		PageData: PageData{
			Title:   result.NameRaw,
			Version: h.renderer.version,
			Nav:     "contacts",
		},
		Contact:  result,
		Birthday: derefString(result.Contact.Birthday),
	})
}

// HandleContactDelete deletes a contact by ID and responds with JSON.
func (h *Handlers) HandleContactDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := ops.ContactDelete(r.Context(), h.db, ops.ContactDeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleNoteList serves the note list page. An optional "q" parameter runs a
// text search; an optional "tag" parameter runs a tag search instead.
func (h *Handlers) HandleNoteList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	tag := strings.TrimSpace(r.URL.Query().Get("tag"))
	limit := parseIntParam(r, "limit", ops.DefaultListLimit)
	offset := parseIntParam(r, "offset", 0)

	var items []record.Note
	var pagination ops.Pagination

	switch {
	case tag != "":
		result, err := ops.NoteSearch(r.Context(), h.db, ops.NoteSearchInput{
			Mode:   ops.NoteSearchTags,
			Tags:   []string{tag},
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		items = result.Items
		pagination = result.Pagination
	case query != "":
		result, err := ops.NoteSearch(r.Context(), h.db, ops.NoteSearchInput{
			Mode:   ops.NoteSearchText,
			Query:  query,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		items = result.Items
		pagination = result.Pagination
	default:
		result, err := ops.NoteList(r.Context(), h.db, ops.NoteListInput{
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		items = result.Items
		pagination = result.Pagination
	}

	rows := make([]NoteRow, len(items))
	for i, n := range items {
		rows[i] = NoteRow{
			ID:      n.ID,
			Snippet: snippet(n.Text),
			Tags:    n.Tags,
		}
	}

	h.renderer.renderPage(w, "notes", NotesPageData{
		PageData: PageData{
			Title:   "Notes",
			Version: h.renderer.version,
			Nav:     "notes",
		},
		Notes:      rows,
		Pagination: pagination,
		Query:      query,
		Tag:        tag,
		HasQuery:   query != "" || tag != "",
	})
}

// HandleNoteDetail serves a single note page with the text rendered as
// markdown.
func (h *Handlers) HandleNoteDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := ops.NoteGet(r.Context(), h.db, ops.NoteGetInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "note_detail", NoteDetailPageData{
		PageData: PageData{
			Title:   "Note",
			Version: h.renderer.version,
			Nav:     "notes",
		},
		Note:         result,
		RenderedHTML: renderMarkdown(result.Text),
	})
}

// HandleNoteDelete deletes a note by ID and responds with JSON.
func (h *Handlers) HandleNoteDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	result, err := ops.NoteDelete(r.Context(), h.db, ops.NoteDeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandleBirthdays serves the birthdays page: the upcoming window first, then
// every contact with a birthday.
func (h *Handlers) HandleBirthdays(w http.ResponseWriter, r *http.Request) {
	days := parseIntParam(r, "days", h.cfg.UpcomingDaysDefault)

	upcoming, err := ops.BirthdayUpcoming(r.Context(), h.db, ops.BirthdayUpcomingInput{Days: days})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	all, err := ops.BirthdayAll(r.Context(), h.db, ops.BirthdayAllInput{})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "birthdays", BirthdaysPageData{
		PageData: PageData{
			Title:   "Birthdays",
			Version: h.renderer.version,
			Nav:     "birthdays",
		},
		Upcoming: upcoming.Items,
		All:      all.Items,
		Days:     upcoming.Days,
	})
}

// parseIntParam parses an integer query parameter with a default.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return v
}

// derefString returns the value of a string pointer, or "" when nil.
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
