package datetime

import "time"

// Date returns the calendar date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TruncateToDate drops the clock part of t, keeping its calendar date in its
// own location, and returns that date at UTC midnight.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampToMonth returns the given day in the given month, moved back to the
// month's last day when the month is shorter. Days below 1 map to the 1st.
//
// useFallback is accepted for callers that carry an end-of-month fallback
// setting but has no effect: clamping applies either way.
// TODO: honour useFallback=false once product defines the non-clamping rule.
func ClampToMonth(year int, month time.Month, day int, useFallback bool) time.Time {
	// Normalise month overflow first, e.g. month 13 of 2024 is January 2025.
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), first.Month()

	if day < 1 {
		day = 1
	}
	last := DaysInMonth(year, month)
	if day > last {
		day = last
	}
	return Date(year, month, day)
}

// AddMonthsClamped moves t by the given number of calendar months and places
// it on the anchor day, clamped to the target month's length.
func AddMonthsClamped(t time.Time, months, anchorDay int, useFallback bool) time.Time {
	return ClampToMonth(t.Year(), t.Month()+time.Month(months), anchorDay, useFallback)
}

// DaysBetween returns the number of calendar days from start to end,
// negative when end precedes start. Clock components are ignored.
func DaysBetween(start, end time.Time) int {
	s := TruncateToDate(start)
	e := TruncateToDate(end)
	return int(e.Sub(s).Hours() / 24)
}
