package domain

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for calendar dates in the state document.
const dateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component. The zero value
// is the zero date. Dates are normalized to midnight UTC internally so that
// comparisons are always by calendar day.
type Date struct {
	t time.Time
}

// NewDate builds a Date from calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses an ISO-8601 calendar date. Full RFC 3339 timestamps from
// older persisted states are tolerated by truncating the time-of-day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

// Year returns the calendar year.
func (d Date) Year() int { return d.t.Year() }

// Month returns the calendar month.
func (d Date) Month() time.Month { return d.t.Month() }

// Day returns the day of the month.
func (d Date) Day() int { return d.t.Day() }

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// String renders the date in ISO-8601 form.
func (d Date) String() string { return d.t.Format(dateLayout) }

// MarshalJSON encodes the date as an ISO-8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.t.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes an ISO-8601 date or RFC 3339 timestamp.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var italianMonths = [12]string{
	"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
	"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
}

// FormatItalian renders the date for display with the Italian month name,
// e.g. "10 marzo 2024". Display only; stored dates stay ISO-8601.
func (d Date) FormatItalian() string {
	return fmt.Sprintf("%02d %s %d", d.Day(), italianMonths[d.Month()-1], d.Year())
}

// MonthWindow returns the inclusive [first, last] calendar-day window of a
// month. The month argument is zero-based (January is 0); out-of-range
// values roll over the year boundary the way calendar arithmetic does.
func MonthWindow(year, month int) (first, last Date) {
	first = NewDate(year, time.Month(month+1), 1)
	last = DateOf(time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.UTC))
	return first, last
}
