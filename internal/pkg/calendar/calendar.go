// Package calendar resolves calendar days in the organisation's time zone.
// Day values are always midnight UTC so they map 1:1 onto DATE columns.
package calendar

import (
	"time"
)

const DateLayout = "2006-01-02"

type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock returns a clock frozen at t, for tests and seeding.
func NewFixedClock(t time.Time, loc *time.Location) *Clock {
	c := NewClock(loc)
	c.now = func() time.Time { return t }
	return c
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today is the current calendar day in the clock's location.
func (c *Clock) Today() time.Time {
	return Day(c.Now())
}

// CurrentPeriod returns the month and year of Today.
func (c *Clock) CurrentPeriod() (month int, year int) {
	today := c.Today()
	return int(today.Month()), today.Year()
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Day truncates t to its calendar day, keeping the wall-clock date of t.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthRange returns the first day of the month and the first day of the next one.
func MonthRange(month, year int) (start time.Time, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// InclusiveDays counts calendar days from start through end.
func InclusiveDays(start, end time.Time) int {
	s, e := Day(start), Day(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// PreviousWeekday returns the closest Monday-Friday day strictly before day.
func PreviousWeekday(day time.Time) time.Time {
	d := Day(day).AddDate(0, 0, -1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDatePtr formats an optional day.
func FormatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDate(*t)
	return &s
}
