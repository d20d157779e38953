package leave

import "time"

func isWorkday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// CalculateDays counts the working days between start and end inclusive,
// skipping weekends.
func CalculateDays(start, end time.Time) float64 {
	if end.Before(start) {
		return 0
	}
	days := 0.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if isWorkday(d) {
			days++
		}
	}
	return days
}

// CalculateRequestDays is CalculateDays with half-day adjustments on
// either end of the range.
func CalculateRequestDays(start, end time.Time, startHalf, endHalf bool) float64 {
	days := CalculateDays(start, end)
	if days == 0 {
		return 0
	}
	if startHalf && isWorkday(start) {
		days -= 0.5
	}
	if endHalf && !start.Equal(end) && isWorkday(end) {
		days -= 0.5
	}
	return days
}
