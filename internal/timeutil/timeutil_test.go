package timeutil

import (
	"testing"
	"time"
)

func TestParseDateAcceptsKnownLayouts(t *testing.T) {
	want := time.Date(2022, 12, 22, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2022-12-22", " 2022-12-22 ", "2022-12-22 00:00:00", "2022-12-22T19:30:00Z"} {
		got, err := ParseDate(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if !got.Equal(want) {
			t.Fatalf("expected %s for %q, got %s", want, raw, got)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	if _, err := ParseDate("12/22/2022"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)); got != "2024-01-02" {
		t.Fatalf("expected 2024-01-02, got %s", got)
	}
}
