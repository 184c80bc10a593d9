package timezone

import (
	"log/slog"
	"time"
)

const (
	// DefaultZone is the office zone, Central Indonesian Time.
	DefaultZone = "Asia/Makassar"

	DateLayout        = "2006-01-02"
	DisplayTimeLayout = "15:04"
	DisplayDateLayout = "02/01/2006"
)

// witaFallback is used when the host has no tzdata; WITA has no DST.
var witaFallback = time.FixedZone("WITA", 8*60*60)

// Clock yields the current instant and calendar date in one fixed zone.
// All date bucketing and hour-of-day checks go through a Clock, never through
// the host's local zone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock loads the named zone. An unknown name falls back to UTC+8.
func NewClock(zone string) *Clock {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		slog.Warn("Timezone not available, using fixed UTC+8", "zone", zone, "error", err)
		loc = witaFallback
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock returns a clock whose Now always reports t. Used by tests and
// by jobs that evaluate a specific instant.
func NewFixedClock(zone string, t time.Time) *Clock {
	c := NewClock(zone)
	c.now = func() time.Time { return t }
	return c
}

// WithNow returns a copy of the clock reading time from fn.
func (c *Clock) WithNow(fn func() time.Time) *Clock {
	return &Clock{loc: c.loc, now: fn}
}

// Location returns the clock's zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant with calendar fields in the clock's zone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current local date as YYYY-MM-DD.
func (c *Clock) Today() string {
	return c.Now().Format(DateLayout)
}

// DateOf buckets an instant into its local date.
func (c *Clock) DateOf(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// ParseDate parses YYYY-MM-DD as local midnight.
func (c *Clock) ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, c.loc)
}

// FormatTime renders HH:MM in the clock's zone. Display only.
func (c *Clock) FormatTime(t time.Time) string {
	return t.In(c.loc).Format(DisplayTimeLayout)
}

// FormatDate renders DD/MM/YYYY in the clock's zone. Display only.
func (c *Clock) FormatDate(t time.Time) string {
	return t.In(c.loc).Format(DisplayDateLayout)
}

// MonthRange returns the first and last local dates of a month.
func (c *Clock) MonthRange(year int, month time.Month) (first, last time.Time) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, c.loc)
	last = first.AddDate(0, 1, -1)
	return first, last
}
