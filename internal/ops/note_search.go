package ops

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/hpungsan/keeper/internal/db"
	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/record"
)

// NoteSearchMode selects which fields a note search inspects.
type NoteSearchMode string

const (
	// NoteSearchText matches the query as a substring of note text.
	NoteSearchText NoteSearchMode = "text"
	// NoteSearchTags matches notes whose tag set intersects the query tags.
	NoteSearchTags NoteSearchMode = "tags"
	// NoteSearchAny matches the query as a substring of text or of any tag.
	NoteSearchAny NoteSearchMode = "any"
)

// NoteSearchInput contains parameters for the NoteSearch operation.
type NoteSearchInput struct {
	Mode   NoteSearchMode // default: text
	Query  string         // required for text/any
	Tags   []string       // required for tags
	Limit  int            // default: 20, max: 100
	Offset int            // default: 0
}

// NoteSearchOutput contains the result of the NoteSearch operation.
type NoteSearchOutput struct {
	Items      []record.Note `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// NoteSearch searches notes by text substring, by tag intersection, or by
// both at once. Searches never mutate the store; an empty result set is not
// an error.
func NoteSearch(ctx context.Context, database *sql.DB, input NoteSearchInput) (*NoteSearchOutput, error) {
	mode := input.Mode
	if mode == "" {
		mode = NoteSearchText
	}

	limit := clampLimit(input.Limit)
	offset := max(input.Offset, 0)

	switch mode {
	case NoteSearchText:
		return searchNotesText(ctx, database, input.Query, limit, offset)
	case NoteSearchTags:
		return searchNotesTags(ctx, database, input.Tags, limit, offset)
	case NoteSearchAny:
		return searchNotesAny(ctx, database, input.Query, limit, offset)
	default:
		return nil, errors.NewInvalidRequest("mode must be one of: text, tags, any")
	}
}

func searchNotesText(ctx context.Context, database *sql.DB, query string, limit, offset int) (*NoteSearchOutput, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}

	items, total, err := db.SearchNotesByText(ctx, database, query, limit, offset)
	if err != nil {
		return nil, err
	}

	return paginated(items, limit, offset, total), nil
}

// searchNotesTags matches a note when any query tag equals any of its tags
// after normalization. The tagged subset is scanned in full; the store is
// small and tag comparison needs the decoded list anyway.
func searchNotesTags(ctx context.Context, database *sql.DB, queryTags []string, limit, offset int) (*NoteSearchOutput, error) {
	tags := record.NormalizeTags(queryTags)
	if len(tags) == 0 {
		return nil, errors.NewInvalidRequest("at least one tag is required")
	}

	tagged, err := db.ListTaggedNotes(ctx, database)
	if err != nil {
		return nil, err
	}

	querySet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		querySet[tag] = true
	}

	matched := make([]record.Note, 0)
	for _, n := range tagged {
		for _, tag := range n.Tags {
			if querySet[tag] {
				matched = append(matched, n)
				break
			}
		}
	}

	return pageSlice(matched, limit, offset), nil
}

// searchNotesAny matches the query as a case-insensitive substring of the
// note text or of any tag.
func searchNotesAny(ctx context.Context, database *sql.DB, query string, limit, offset int) (*NoteSearchOutput, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	queryNorm := strings.ToLower(query)

	// Text matches come from SQL; tag matches need the decoded tag lists.
	textMatches, err := db.FindNotesByText(ctx, database, query)
	if err != nil {
		return nil, err
	}

	tagged, err := db.ListTaggedNotes(ctx, database)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(textMatches))
	matched := make([]record.Note, 0, len(textMatches))
	for _, n := range textMatches {
		seen[n.ID] = true
		matched = append(matched, n)
	}
	for _, n := range tagged {
		if seen[n.ID] {
			continue
		}
		for _, tag := range n.Tags {
			if strings.Contains(tag, queryNorm) {
				matched = append(matched, n)
				break
			}
		}
	}

	// Restore insertion order across the two sources (ULIDs sort by creation time)
	sortNotesByID(matched)

	return pageSlice(matched, limit, offset), nil
}

// paginated wraps a pre-paginated page in a NoteSearchOutput.
func paginated(items []record.Note, limit, offset, total int) *NoteSearchOutput {
	return &NoteSearchOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}
}

// pageSlice applies limit/offset to an in-memory result set.
func pageSlice(all []record.Note, limit, offset int) *NoteSearchOutput {
	total := len(all)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return paginated(all[offset:end], limit, offset, total)
}

// sortNotesByID sorts notes by ID ascending (insertion order for ULIDs).
func sortNotesByID(notes []record.Note) {
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
}
