package civil

import (
	"time"

	perr "gutlog/internal/platform/errors"
)

// Resolution is the output of resolving a user-entered civil date and time
//
// RecordDate is re-derived from Start and always wins over the input date;
// DateMismatch only fires when the caller supplied a date derived with some
// other zone, and the caller is expected to warn but still file under
// RecordDate
type Resolution struct {
	Start        time.Time
	End          time.Time
	RecordDate   Date
	DateMismatch bool
}

// Resolve converts (civil date, civil time, duration) into the absolute
// start/end instants to persist and the canonical record date
//
// durationMinutes must be positive; range limits beyond that are an edge
// concern and do not belong here. Inputs are never clamped, malformed values
// fail validation outright
func Resolve(date, timeOfDay string, durationMinutes int) (Resolution, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Resolution{}, err
	}
	tod, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return Resolution{}, err
	}
	if durationMinutes < 1 {
		return Resolution{}, perr.Validationf("duration must be a positive number of minutes, got %d", durationMinutes)
	}

	start := DateTime{Date: d, Time: tod}.In(KST)
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	// back-convert independently, never reuse the input date
	recordDate := DateOf(start, KST)

	return Resolution{
		Start:        start,
		End:          end,
		RecordDate:   recordDate,
		DateMismatch: recordDate != d,
	}, nil
}
