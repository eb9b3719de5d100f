package record

import (
	"time"

	"github.com/hpungsan/keeper/internal/errors"
)

// DaysUntilBirthday computes the number of days from today's civil date to
// the next occurrence of the birthday's month/day, wrapping to next year if
// the anniversary has already passed. A birthday today is distance 0.
//
// All arithmetic is done on UTC midnights so the result is an exact day
// count regardless of DST. A Feb 29 birthday is observed on Mar 1 in
// non-leap years: time.Date normalizes the overflow, and that is the
// policy here.
func DaysUntilBirthday(birthday string, today time.Time) (int, error) {
	bd, err := time.Parse(time.DateOnly, birthday)
	if err != nil {
		return 0, errors.NewValidation("birthday", "must be a date in YYYY-MM-DD form")
	}

	base := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	next := time.Date(base.Year(), bd.Month(), bd.Day(), 0, 0, 0, 0, time.UTC)
	if next.Before(base) {
		next = time.Date(base.Year()+1, bd.Month(), bd.Day(), 0, 0, 0, 0, time.UTC)
	}

	return int(next.Sub(base) / (24 * time.Hour)), nil
}
