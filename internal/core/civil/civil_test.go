package civil

import (
	"testing"
	"time"

	perr "gutlog/internal/platform/errors"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("leap day should parse: %v", err)
	}
	if d.Year != 2024 || d.Month != time.February || d.Day != 29 {
		t.Fatalf("got %+v", d)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("String: %q", d.String())
	}

	bad := []string{
		"2023-02-29", // not a leap year
		"2023-13-01",
		"2023-00-10",
		"2023-01-32",
		"2023-1-2",
		"01-02-2023",
		"20230102",
		"",
		"yesterday",
	}
	for _, s := range bad {
		if _, err := ParseDate(s); !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%q: expected validation error, got %v", s, err)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("23:59")
	if err != nil {
		t.Fatalf("ParseTimeOfDay: %v", err)
	}
	if tod.Hour != 23 || tod.Minute != 59 {
		t.Fatalf("got %+v", tod)
	}
	if tod.String() != "23:59" {
		t.Fatalf("String: %q", tod.String())
	}

	if _, err := ParseTimeOfDay("00:00"); err != nil {
		t.Fatalf("midnight should parse: %v", err)
	}

	bad := []string{"24:00", "12:60", "9:30", "09:5", "09-30", "", "noon"}
	for _, s := range bad {
		if _, err := ParseTimeOfDay(s); !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%q: expected validation error, got %v", s, err)
		}
	}
}

func TestDateTimeInKST(t *testing.T) {
	dt := DateTime{
		Date: Date{Year: 2024, Month: time.March, Day: 10},
		Time: TimeOfDay{Hour: 7, Minute: 30},
	}
	got := dt.In(KST)

	// 07:30 KST is 22:30 UTC the previous day
	want := time.Date(2024, time.March, 9, 22, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Fatalf("instant must be UTC, got %v", got.Location())
	}
}

func TestDateOfRoundTrip(t *testing.T) {
	// the civil date read back in KST must match the civil date that was
	// resolved, even when the UTC representation lands on the previous day
	cases := []DateTime{
		{Date{2024, time.January, 1}, TimeOfDay{0, 0}},
		{Date{2024, time.January, 1}, TimeOfDay{8, 59}}, // still previous day in UTC
		{Date{2024, time.January, 1}, TimeOfDay{9, 0}},  // same day in UTC from here
		{Date{2024, time.December, 31}, TimeOfDay{23, 59}},
		{Date{2024, time.February, 29}, TimeOfDay{3, 0}},
	}
	for _, dt := range cases {
		inst := dt.In(KST)
		if got := DateOf(inst, KST); got != dt.Date {
			t.Fatalf("%v: round trip gave %v", dt, got)
		}
		if got := TimeOfDayOf(inst, KST); got != dt.Time {
			t.Fatalf("%v: time round trip gave %v", dt, got)
		}
	}
}
