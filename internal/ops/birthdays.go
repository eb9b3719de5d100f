package ops

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/hpungsan/keeper/internal/db"
	"github.com/hpungsan/keeper/internal/errors"
	"github.com/hpungsan/keeper/internal/record"
)

// BirthdayItem pairs a contact with its next-anniversary distance.
type BirthdayItem struct {
	record.Contact
	// DaysUntil is the number of days from today to the next occurrence
	// of the contact's birthday (0 = today).
	DaysUntil int `json:"days_until"`
}

// BirthdayUpcomingInput contains parameters for the BirthdayUpcoming operation.
type BirthdayUpcomingInput struct {
	// Days is the window size; a contact is upcoming when its distance is
	// <= Days. Must be >= 0.
	Days int

	// Today overrides the reference date. Zero value means the current
	// local date. Exposed so callers (and tests) can pin the clock.
	Today time.Time
}

// BirthdayUpcomingOutput contains the result of the BirthdayUpcoming operation.
type BirthdayUpcomingOutput struct {
	Items []BirthdayItem `json:"items"`
	Days  int            `json:"days"`
}

// BirthdayUpcoming returns contacts whose next birthday occurrence falls
// within the window, ascending by distance, ties broken by normalized name.
// The view is recomputed from the contact store on every call; nothing is
// cached and nothing is mutated.
func BirthdayUpcoming(ctx context.Context, database *sql.DB, input BirthdayUpcomingInput) (*BirthdayUpcomingOutput, error) {
	if input.Days < 0 {
		return nil, errors.NewInvalidRequest("days must be >= 0")
	}

	today := input.Today
	if today.IsZero() {
		today = time.Now()
	}

	contacts, err := db.ListContactsWithBirthdays(ctx, database)
	if err != nil {
		return nil, err
	}

	items := make([]BirthdayItem, 0)
	for _, c := range contacts {
		distance, err := record.DaysUntilBirthday(*c.Birthday, today)
		if err != nil {
			// A stored birthday that no longer parses means the row was
			// tampered with outside the app; surface it rather than skip.
			return nil, errors.NewInternal(err)
		}
		if distance <= input.Days {
			items = append(items, BirthdayItem{Contact: c, DaysUntil: distance})
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].DaysUntil != items[j].DaysUntil {
			return items[i].DaysUntil < items[j].DaysUntil
		}
		return items[i].NameNorm < items[j].NameNorm
	})

	return &BirthdayUpcomingOutput{
		Items: items,
		Days:  input.Days,
	}, nil
}

// BirthdayAllInput contains parameters for the BirthdayAll operation.
type BirthdayAllInput struct {
	// Today overrides the reference date for the DaysUntil column.
	// Zero value means the current local date.
	Today time.Time
}

// BirthdayAllOutput contains the result of the BirthdayAll operation.
type BirthdayAllOutput struct {
	Items []BirthdayItem `json:"items"`
}

// BirthdayAll returns every contact that has a birthday, sorted by birth
// date ascending, with each contact's next-occurrence distance included.
func BirthdayAll(ctx context.Context, database *sql.DB, input BirthdayAllInput) (*BirthdayAllOutput, error) {
	today := input.Today
	if today.IsZero() {
		today = time.Now()
	}

	contacts, err := db.ListContactsWithBirthdays(ctx, database)
	if err != nil {
		return nil, err
	}

	items := make([]BirthdayItem, 0, len(contacts))
	for _, c := range contacts {
		distance, err := record.DaysUntilBirthday(*c.Birthday, today)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		items = append(items, BirthdayItem{Contact: c, DaysUntil: distance})
	}

	// Birthdays are canonical YYYY-MM-DD, so string order is date order.
	sort.Slice(items, func(i, j int) bool {
		if *items[i].Birthday != *items[j].Birthday {
			return *items[i].Birthday < *items[j].Birthday
		}
		return items[i].NameNorm < items[j].NameNorm
	})

	return &BirthdayAllOutput{Items: items}, nil
}
