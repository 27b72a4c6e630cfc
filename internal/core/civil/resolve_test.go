package civil

import (
	"testing"
	"time"

	perr "gutlog/internal/platform/errors"
)

func TestResolveRoundTrip(t *testing.T) {
	// for any valid input the derived record date equals the input date,
	// the fixed offset has no transitions to disagree across
	cases := []struct {
		date string
		tod  string
	}{
		{"2024-03-10", "14:30"},
		{"2024-03-10", "00:00"},
		{"2024-03-10", "23:59"},
		{"2024-01-01", "00:30"},
		{"2024-12-31", "23:30"},
		{"2024-02-29", "09:00"},
		{"2023-12-31", "08:59"}, // previous UTC day
	}
	for _, c := range cases {
		res, err := Resolve(c.date, c.tod, 10)
		if err != nil {
			t.Fatalf("%s %s: %v", c.date, c.tod, err)
		}
		if res.RecordDate.String() != c.date {
			t.Fatalf("%s %s: record date %s", c.date, c.tod, res.RecordDate)
		}
		if res.DateMismatch {
			t.Fatalf("%s %s: unexpected mismatch", c.date, c.tod)
		}
	}
}

func TestResolveDuration(t *testing.T) {
	for _, mins := range []int{1, 5, 60, 120, 121, 1440, 99999} {
		res, err := Resolve("2024-03-10", "14:30", mins)
		if err != nil {
			t.Fatalf("minutes %d: %v", mins, err)
		}
		want := time.Duration(mins) * time.Minute
		if got := res.End.Sub(res.Start); got != want {
			t.Fatalf("minutes %d: end-start = %v", mins, got)
		}
	}
}

func TestResolveStartInstant(t *testing.T) {
	res, err := Resolve("2024-03-10", "07:30", 30)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := time.Date(2024, time.March, 9, 22, 30, 0, 0, time.UTC)
	if !res.Start.Equal(want) {
		t.Fatalf("start %v want %v", res.Start, want)
	}
}

func TestResolveEndCrossesMidnight(t *testing.T) {
	// the record date stays on the start's civil day even when the end
	// rolls past midnight
	res, err := Resolve("2024-03-10", "23:55", 20)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.RecordDate.String() != "2024-03-10" {
		t.Fatalf("record date %s", res.RecordDate)
	}
	if got := DateOf(res.End, KST).String(); got != "2024-03-11" {
		t.Fatalf("end civil date %s", got)
	}
}

func TestResolveRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		date string
		tod  string
		mins int
	}{
		{"2024-03-10", "14:30", 0},
		{"2024-03-10", "14:30", -5},
		{"2024-02-30", "14:30", 10},
		{"2024-03-10", "24:00", 10},
		{"March 10", "14:30", 10},
		{"2024-03-10", "2pm", 10},
	}
	for _, c := range cases {
		if _, err := Resolve(c.date, c.tod, c.mins); !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%+v: expected validation error, got %v", c, err)
		}
	}
}
