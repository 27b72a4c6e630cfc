package strings

import (
	"testing"

	"gutlog/internal/platform/testkit"
)

func TestMustPrefix(t *testing.T) {
	cases := map[string]string{
		"/records":     "/records",
		"records":      "/records",
		" /records/ ":  "/records",
		"//timer":      "/timer",
		"/foods/items": "/foods/items",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q want %q", in, got, want)
		}
	}

	testkit.MustPanic(t, func() { MustPrefix("") })
	testkit.MustPanic(t, func() { MustPrefix("  / ") })
}

func TestMustString(t *testing.T) {
	if got := MustString("timer", "name"); got != "timer" {
		t.Fatalf("MustString = %q", got)
	}
	testkit.MustPanic(t, func() { MustString("   ", "name") })
}

func TestSQLNullPtr(t *testing.T) {
	if v := SQLNullPtr(nil); v != nil {
		t.Fatalf("nil pointer should map to nil, got %v", v)
	}
	blank := "  "
	if v := SQLNullPtr(&blank); v != nil {
		t.Fatalf("blank string should map to nil, got %v", v)
	}
	s := "many"
	if v := SQLNullPtr(&s); v != "many" {
		t.Fatalf("got %v", v)
	}
}
