package shared

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2025, 3, 10, 18, 45, 12, 999, time.UTC)
	got := StartOfDay(ts)
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", base, base.Add(11 * time.Hour), 0},
		{"across midnight", base.Add(11 * time.Hour), base.Add(13 * time.Hour), 1},
		{"next day", base, base.Add(24 * time.Hour), 1},
		{"gap", base, base.Add(72 * time.Hour), 3},
		{"backwards", base.Add(24 * time.Hour), base, -1},
	}

	for _, tc := range cases {
		if got := DaysBetween(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}
