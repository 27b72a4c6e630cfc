// Package civil provides civil date/time primitives for the fixed KST zone
// and the record-date resolver that derives the canonical storage date
//
// a civil value carries no zone; the zone is the KST constant and is passed
// explicitly into every conversion, never inferred from the host clock
package civil

import (
	"fmt"
	"time"

	perr "gutlog/internal/platform/errors"
)

// KST is the fixed civil zone for all record dates, UTC+9 with no DST
var KST = time.FixedZone("KST", 9*60*60)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Date is a civil calendar date, no zone attached
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict YYYY-MM-DD Gregorian date
// invalid calendar dates (2023-02-30) are rejected, never normalized
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, perr.Validationf("invalid date %q, want YYYY-MM-DD", s)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// String renders the date as YYYY-MM-DD
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero value
func (d Date) IsZero() bool { return d == Date{} }

// TimeOfDay is a civil wall-clock time, 24-hour, minute precision
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a strict 24-hour HH:MM
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	// time.Parse tolerates a single-digit hour for the "15" verb
	if len(s) != len(timeLayout) {
		return TimeOfDay{}, perr.Validationf("invalid time %q, want HH:MM", s)
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeOfDay{}, perr.Validationf("invalid time %q, want HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// String renders the time as HH:MM
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// DateTime composes a civil date and time of day
type DateTime struct {
	Date Date
	Time TimeOfDay
}

// In resolves the civil value against loc and returns the absolute instant in UTC
func (dt DateTime) In(loc *time.Location) time.Time {
	return time.Date(
		dt.Date.Year, dt.Date.Month, dt.Date.Day,
		dt.Time.Hour, dt.Time.Minute, 0, 0,
		loc,
	).UTC()
}

// DateOf converts an absolute instant back into its civil date in loc
func DateOf(t time.Time, loc *time.Location) Date {
	ct := t.In(loc)
	return Date{Year: ct.Year(), Month: ct.Month(), Day: ct.Day()}
}

// TimeOfDayOf converts an absolute instant back into its civil time of day in loc
func TimeOfDayOf(t time.Time, loc *time.Location) TimeOfDay {
	ct := t.In(loc)
	return TimeOfDay{Hour: ct.Hour(), Minute: ct.Minute()}
}
