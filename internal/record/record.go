package record

// Contact represents one stored contact.
type Contact struct {
	// ID is a ULID that uniquely identifies this contact
	ID string

	// NameRaw is the name as provided by the user
	NameRaw string

	// NameNorm is the normalized name (lowercased, trimmed, collapsed spaces)
	NameNorm string

	// Address is a free-form postal address
	Address string

	// Phone is the phone number (validated when non-empty)
	Phone string

	// Email is the email address (validated when non-empty)
	Email string

	// Birthday is the birth date in YYYY-MM-DD form (nullable)
	Birthday *string

	// CreatedAt is the Unix timestamp when the contact was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the contact was last updated
	UpdatedAt int64
}

// Note represents one stored free-text note.
type Note struct {
	// ID is a ULID that uniquely identifies this note
	ID string

	// Text is the note content
	Text string

	// Tags is a list of normalized labels (stored as JSON in DB)
	Tags []string

	// CreatedAt is the Unix timestamp when the note was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the note was last updated
	UpdatedAt int64
}
