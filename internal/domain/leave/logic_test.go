package leave

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{"full working week", date(2026, time.March, 2), date(2026, time.March, 6), 5},
		{"friday to monday skips weekend", date(2026, time.March, 6), date(2026, time.March, 9), 2},
		{"single working day", date(2026, time.March, 4), date(2026, time.March, 4), 1},
		{"weekend only", date(2026, time.March, 7), date(2026, time.March, 8), 0},
		{"end before start", date(2026, time.March, 6), date(2026, time.March, 2), 0},
		{"two full weeks", date(2026, time.March, 2), date(2026, time.March, 13), 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateDays(tt.start, tt.end); got != tt.want {
				t.Fatalf("CalculateDays = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateRequestDays(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		startHalf bool
		endHalf   bool
		want      float64
	}{
		{"no halves", date(2026, time.March, 2), date(2026, time.March, 6), false, false, 5},
		{"half first day", date(2026, time.March, 2), date(2026, time.March, 6), true, false, 4.5},
		{"half both ends", date(2026, time.March, 2), date(2026, time.March, 6), true, true, 4},
		{"single half day", date(2026, time.March, 4), date(2026, time.March, 4), true, true, 0.5},
		{"half on weekend start ignored", date(2026, time.March, 7), date(2026, time.March, 9), true, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateRequestDays(tt.start, tt.end, tt.startHalf, tt.endHalf)
			if got != tt.want {
				t.Fatalf("CalculateRequestDays = %v, want %v", got, tt.want)
			}
		})
	}
}
