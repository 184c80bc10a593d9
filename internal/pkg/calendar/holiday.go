package calendar

import (
	"fmt"
	"time"
)

// HolidayCalendar answers whether a local date is a working day.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
	IsWorkingDay(date time.Time) bool
}

// DefaultHolidays are the fixed month-day holidays observed every year.
var DefaultHolidays = []string{"01-01", "03-22", "05-01", "06-01", "08-17", "12-25", "12-26"}

// FixedCalendar holds recurring MM-DD holidays plus one-off YYYY-MM-DD dates.
type FixedCalendar struct {
	recurring map[string]struct{}
	dated     map[string]struct{}
}

// NewFixedCalendar parses entries in MM-DD (every year) or YYYY-MM-DD (one date) form.
func NewFixedCalendar(entries []string) (*FixedCalendar, error) {
	c := &FixedCalendar{
		recurring: make(map[string]struct{}),
		dated:     make(map[string]struct{}),
	}
	for _, entry := range entries {
		switch len(entry) {
		case len("01-02"):
			if _, err := time.Parse("01-02", entry); err != nil {
				return nil, fmt.Errorf("invalid holiday %q: %w", entry, err)
			}
			c.recurring[entry] = struct{}{}
		case len("2006-01-02"):
			if _, err := time.Parse("2006-01-02", entry); err != nil {
				return nil, fmt.Errorf("invalid holiday %q: %w", entry, err)
			}
			c.dated[entry] = struct{}{}
		default:
			return nil, fmt.Errorf("invalid holiday %q: want MM-DD or YYYY-MM-DD", entry)
		}
	}
	return c, nil
}

// IsHoliday reports whether date falls on a configured holiday.
func (c *FixedCalendar) IsHoliday(date time.Time) bool {
	if _, ok := c.recurring[date.Format("01-02")]; ok {
		return true
	}
	_, ok := c.dated[date.Format("2006-01-02")]
	return ok
}

// IsWorkingDay reports whether date is a weekday that is not a holiday.
func (c *FixedCalendar) IsWorkingDay(date time.Time) bool {
	if IsWeekend(date) {
		return false
	}
	return !c.IsHoliday(date)
}

// IsWeekend reports Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WorkingDays counts working days in the inclusive range [from, to].
func WorkingDays(cal HolidayCalendar, from, to time.Time) int {
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if cal.IsWorkingDay(d) {
			count++
		}
	}
	return count
}
