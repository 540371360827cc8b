package scoring

import (
	"fmt"
	"time"
)

// DayFormat is the ISO date layout used everywhere dates cross a boundary.
// Lexicographic order on these strings equals chronological order, so SQL
// range filters and string compares agree.
const DayFormat = "2006-01-02"

func ParseDay(s string) (time.Time, error) {
	day, err := time.ParseInLocation(DayFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return day, nil
}

func FormatDay(day time.Time) string {
	return day.Format(DayFormat)
}

// WeekBounds returns the Monday and Sunday of the week containing day.
func WeekBounds(day time.Time) (time.Time, time.Time) {
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// MonthBounds returns the first and last day of the month containing day.
func MonthBounds(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// DaysBetween returns the whole days from a to b; negative when b is
// before a. Both arguments must be UTC midnights.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

func minDay(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}
