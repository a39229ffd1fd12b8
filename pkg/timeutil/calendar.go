package timeutil

import "time"

// WeekSpan is one calendar week bounded by its Monday and Sunday.
type WeekSpan struct {
	Monday time.Time
	Sunday time.Time
}

// DateOnly truncates a timestamp to midnight UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsMonday reports whether the date falls on a Monday.
func IsMonday(d time.Time) bool {
	return d.Weekday() == time.Monday
}

// IsSunday reports whether the date falls on a Sunday.
func IsSunday(d time.Time) bool {
	return d.Weekday() == time.Sunday
}

// WeekdayIndex maps a date to the Monday-based index 0..6.
func WeekdayIndex(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// WeekStart returns the Monday on or before the given date.
func WeekStart(d time.Time) time.Time {
	return DateOnly(d).AddDate(0, 0, -WeekdayIndex(d))
}

// WeekEnd returns the Sunday on or after the given date.
func WeekEnd(d time.Time) time.Time {
	return DateOnly(d).AddDate(0, 0, 6-WeekdayIndex(d))
}

// WeeksInRange returns consecutive Monday-Sunday spans covering the range
// [WeekStart(start), WeekEnd(end)]. Range validity is the caller's concern.
func WeeksInRange(start, end time.Time) []WeekSpan {
	var weeks []WeekSpan
	monday := WeekStart(start)
	last := WeekEnd(end)
	for !monday.After(last) {
		weeks = append(weeks, WeekSpan{Monday: monday, Sunday: monday.AddDate(0, 0, 6)})
		monday = monday.AddDate(0, 0, 7)
	}
	return weeks
}

// IsFirstThursdayOfMonth reports whether the date is the first Thursday of
// its month.
func IsFirstThursdayOfMonth(d time.Time) bool {
	return d.Weekday() == time.Thursday && d.Day() <= 7
}
