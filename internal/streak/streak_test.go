package streak

import (
	"testing"
	"time"
)

func day(offset int) time.Time {
	return time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func days(offsets ...int) []time.Time {
	out := make([]time.Time, len(offsets))
	for i, o := range offsets {
		out[i] = day(o)
	}
	return out
}

func TestCurrent(t *testing.T) {
	today := day(0).Add(15 * time.Hour)

	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"no records", nil, 0},
		{"only today", days(0), 1},
		{"only yesterday", days(-1), 1},
		{"two days ago breaks", days(-2), 0},
		{"five consecutive ending today", days(0, -1, -2, -3, -4), 5},
		{"five consecutive ending yesterday", days(-1, -2, -3, -4, -5), 5},
		{"gap resets to shorter run", days(0, -1, -3, -4, -5), 2},
		{"single skipped day ends run", days(0, -2, -3), 1},
		{"yesterday anchor then gap", days(-1, -3, -4), 1},
		{"unsorted input", days(-2, 0, -1), 3},
		{"duplicate days counted once", days(0, 0, -1), 2},
		{"future record ignored", days(1, 0, -1), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Current(tt.dates, today); got != tt.want {
				t.Errorf("Current() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentNDays(t *testing.T) {
	today := day(0)
	for n := 1; n <= 30; n++ {
		var dates []time.Time
		for i := 0; i < n; i++ {
			dates = append(dates, day(-i))
		}
		if got := Current(dates, today); got != n {
			t.Fatalf("Current(%d consecutive days) = %d", n, got)
		}
	}
}

func TestLongest(t *testing.T) {
	tests := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"empty", nil, 0},
		{"single", days(-10), 1},
		{"run in the past", days(-20, -19, -18, -17, -3, -2), 4},
		{"run ending today", days(-1, 0, -2, -10), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Longest(tt.dates); got != tt.want {
				t.Errorf("Longest() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFromStrings(t *testing.T) {
	got := FromStrings([]string{"2024-05-20", "bad", "2024-05-19"}, time.UTC)
	if len(got) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(got))
	}
	if Current(got, day(0)) != 2 {
		t.Errorf("expected streak 2")
	}
}
