package domain

import (
	"fmt"
	"time"
)

// Campaign is a time-windowed percentage discount over a set of menu items.
// The window is a wall-clock range: a start/end date each combined with an
// "HH:MM" local time, evaluated in the service's configured location.
type Campaign struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	DiscountPercent   int       `json:"discountPercent"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	StartTime         string    `json:"startTime"`
	EndTime           string    `json:"endTime"`
	ApplicableItemIDs []string  `json:"applicableItemIds"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
}

// AppliesTo reports whether the campaign covers the given menu item.
func (c Campaign) AppliesTo(itemID string) bool {
	for _, id := range c.ApplicableItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// WindowBounds combines the campaign's dates with their "HH:MM" clock times
// in loc. Deliberately wall-clock, not UTC-normalized.
func (c Campaign) WindowBounds(loc *time.Location) (start, end time.Time, err error) {
	start, err = CombineDateTime(c.StartDate, c.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("campaign %s start: %w", c.ID, err)
	}
	end, err = CombineDateTime(c.EndDate, c.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("campaign %s end: %w", c.ID, err)
	}
	return start, end, nil
}

// CombineDateTime builds a wall-clock instant from a date and an "HH:MM"
// clock string in loc.
func CombineDateTime(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
