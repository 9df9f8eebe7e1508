package service

import (
	"strings"
	"time"

	"till-ledger/internal/model"
)

// Calendar maps instants to business days in the shop's time zone.
//
// A business day is returned as midnight UTC of the local calendar date,
// so it compares and encodes as a plain date regardless of the zone.
type Calendar struct {
	loc *time.Location
	now func() time.Time
}

// NewCalendar creates a calendar for loc using the wall clock.
func NewCalendar(loc *time.Location) *Calendar {
	return NewCalendarWithClock(loc, time.Now)
}

// NewCalendarWithClock creates a calendar for loc that reads time from now.
func NewCalendarWithClock(loc *time.Location, now func() time.Time) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{loc: loc, now: now}
}

// Location returns the calendar's time zone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the calendar's time zone.
func (c *Calendar) Now() time.Time {
	return c.now().In(c.loc)
}

// DayOf returns the business day containing t.
func (c *Calendar) DayOf(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current business day.
func (c *Calendar) Today() time.Time {
	return c.DayOf(c.now())
}

// Resolve turns an optional YYYY-MM-DD string into a business day.
// An empty string means today.
func (c *Calendar) Resolve(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return c.Today(), nil
	}

	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return time.Time{}, model.ErrInvalidDate
	}
	return day, nil
}
