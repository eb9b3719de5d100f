package record

import (
	"regexp"
	"time"

	"github.com/hpungsan/keeper/internal/errors"
)

var (
	// emailRegex accepts lowercase local parts with an optional dot or
	// underscore separator, e.g. "ana.santos@example.com".
	emailRegex = regexp.MustCompile(`^[a-z0-9]+[._]?[a-z0-9]+@\w+\.\w+$`)

	// phoneRegex accepts digits, spaces, and an optional leading plus.
	phoneRegex = regexp.MustCompile(`^\+?[\d\s]+$`)
)

// ValidateEmail checks that a non-empty email has a plausible shape.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if !emailRegex.MatchString(email) {
		return errors.NewValidation("email", "does not look like an email address")
	}
	return nil
}

// ValidatePhone checks that a non-empty phone number contains only digits,
// spaces, and an optional leading plus.
func ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phoneRegex.MatchString(phone) {
		return errors.NewValidation("phone", "must contain only digits, spaces, and an optional leading +")
	}
	return nil
}

// ParseBirthday parses and canonicalizes a birthday string.
// The accepted format is YYYY-MM-DD.
func ParseBirthday(s string) (string, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return "", errors.NewValidation("birthday", "must be a date in YYYY-MM-DD form")
	}
	return t.Format(time.DateOnly), nil
}
