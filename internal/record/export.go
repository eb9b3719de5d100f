package record

// Record type markers used on each JSONL export line.
const (
	ExportTypeContact = "contact"
	ExportTypeNote    = "note"
)

// ExportRecord represents one line in the JSONL export format. The first
// line of a file is a header (KeeperExport=true); every following line is
// a typed contact or note record. It is also used for parsing export files
// during import.
type ExportRecord struct {
	// Header detection field - true only for header line
	KeeperExport bool `json:"_keeper_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	// Type is "contact" or "note" for data lines
	Type string `json:"type,omitempty"`

	// Shared fields
	ID        string `json:"id,omitempty"`
	CreatedAt int64  `json:"created_at,omitempty"`
	UpdatedAt int64  `json:"updated_at,omitempty"`

	// Contact fields
	Name     string  `json:"name,omitempty"`
	Address  string  `json:"address,omitempty"`
	Phone    string  `json:"phone,omitempty"`
	Email    string  `json:"email,omitempty"`
	Birthday *string `json:"birthday,omitempty"`

	// Note fields
	Text string   `json:"text,omitempty"`
	Tags []string `json:"tags,omitempty"`
}

// ToContact converts a contact export record, recomputing the normalized name.
func (r *ExportRecord) ToContact() *Contact {
	return &Contact{
		ID:        r.ID,
		NameRaw:   r.Name,
		NameNorm:  Normalize(r.Name),
		Address:   r.Address,
		Phone:     r.Phone,
		Email:     r.Email,
		Birthday:  r.Birthday,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ToNote converts a note export record, renormalizing tags.
func (r *ExportRecord) ToNote() *Note {
	return &Note{
		ID:        r.ID,
		Text:      r.Text,
		Tags:      NormalizeTags(r.Tags),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ContactToExportRecord converts a Contact to a data line for export.
func ContactToExportRecord(c *Contact) *ExportRecord {
	return &ExportRecord{
		Type:      ExportTypeContact,
		ID:        c.ID,
		Name:      c.NameRaw,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Birthday:  c.Birthday,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NoteToExportRecord converts a Note to a data line for export.
func NoteToExportRecord(n *Note) *ExportRecord {
	return &ExportRecord{
		Type:      ExportTypeNote,
		ID:        n.ID,
		Text:      n.Text,
		Tags:      n.Tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
