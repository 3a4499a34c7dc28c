package models

import (
	"fmt"
	"time"
)

// dateLayout is the only layout CivilDate ever parses or formats.
const dateLayout = "2006-01-02"

// CivilDate is a calendar date with no time-of-day or timezone component.
// It is the unit scheduling operates in: message assignment is day-granular,
// and queue names are derived from it directly.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// CivilDateOf truncates t to its civil date in the given location.
func CivilDateOf(t time.Time, loc *time.Location) CivilDate {
	t = t.In(loc)
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// Today returns the current civil date in the given location.
func Today(loc *time.Location) CivilDate {
	return CivilDateOf(time.Now(), loc)
}

// ParseCivilDate parses a "YYYY-MM-DD" string.
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid civil date %q: %w", s, err)
	}
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}, nil
}

// String formats the date as "YYYY-MM-DD".
func (c CivilDate) String() string {
	return time.Date(c.Year, c.Month, c.Day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

// AddDays returns the civil date n days after c (n may be negative).
func (c CivilDate) AddDays(n int) CivilDate {
	t := time.Date(c.Year, c.Month, c.Day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	y, m, d := t.Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// Before reports whether c is strictly earlier than other.
func (c CivilDate) Before(other CivilDate) bool {
	return c.toTime().Before(other.toTime())
}

// Bounds returns the [start, end) instants spanning the civil day in loc.
func (c CivilDate) Bounds(loc *time.Location) (start, end time.Time) {
	start = time.Date(c.Year, c.Month, c.Day, 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 1)
	return start, end
}

func (c CivilDate) toTime() time.Time {
	return time.Date(c.Year, c.Month, c.Day, 0, 0, 0, 0, time.UTC)
}

// MarshalJSON renders the date as a quoted "YYYY-MM-DD" string.
func (c CivilDate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// UnmarshalJSON parses a quoted "YYYY-MM-DD" string.
func (c *CivilDate) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid civil date JSON: %s", data)
	}
	parsed, err := ParseCivilDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
