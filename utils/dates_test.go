package utils

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", time.Date(2025, 3, 1, 9, 0, 0, 0, loc), time.Date(2025, 3, 1, 23, 0, 0, 0, loc), 0},
		{"next morning", time.Date(2025, 3, 1, 23, 0, 0, 0, loc), time.Date(2025, 3, 2, 1, 0, 0, 0, loc), 1},
		{"one week", time.Date(2025, 3, 1, 12, 0, 0, 0, loc), time.Date(2025, 3, 8, 12, 0, 0, 0, loc), 7},
		{"month boundary", time.Date(2025, 1, 31, 12, 0, 0, 0, loc), time.Date(2025, 2, 2, 12, 0, 0, 0, loc), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.start, tt.end); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGenerateRandomString(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s := GenerateRandomString(6)
		if len(s) != 6 {
			t.Fatalf("length = %d, want 6", len(s))
		}
		seen[s] = true
	}
	if len(seen) < 2 {
		t.Error("GenerateRandomString produced no variation")
	}
}
