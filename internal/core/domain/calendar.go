package domain

import "time"

// CivilDate drops the clock part of t in its own location and returns the
// calendar date as midnight UTC, the carrier used for DATE columns.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the length of the month as day 0 of the following month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last calendar day of a month.
func MonthBounds(year int, month time.Month) (from, to time.Time, err error) {
	if month < time.January || month > time.December {
		return time.Time{}, time.Time{}, ErrInvalidMonth
	}
	from = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, -1), nil
}

// MonthDateKeys lists every date key of the month in order.
func MonthDateKeys(year int, month time.Month) []string {
	n := DaysIn(year, month)
	keys := make([]string, 0, n)
	for d := 1; d <= n; d++ {
		keys = append(keys, time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format(DateLayout))
	}
	return keys
}
