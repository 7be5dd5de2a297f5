package dashboard

import (
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

// DayCell is one slot of the month grid. Leading blanks have Day == 0 and no
// date key.
type DayCell struct {
	Day     int
	DateKey string
}

func (c DayCell) Blank() bool {
	return c.Day == 0
}

// FirstWeekdayMon is the Monday-based weekday index (Monday = 0) of the first
// day of the month.
func FirstWeekdayMon(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return (int(first.Weekday()) + 6) % 7
}

func DaysIn(year int, month time.Month) int {
	return domain.DaysIn(year, month)
}

// DateKey formats a calendar date as YYYY-MM-DD. The key names a civil date,
// so it is built from the date parts and never converted between zones.
func DateKey(year int, month time.Month, day int) string {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(domain.DateLayout)
}

// BuildGrid returns the Monday-first cells of one month: leading blanks up to
// the first weekday, then one cell per day. No trailing padding is added.
func BuildGrid(year int, month time.Month) []DayCell {
	lead := FirstWeekdayMon(year, month)
	days := DaysIn(year, month)

	cells := make([]DayCell, 0, lead+days)
	for i := 0; i < lead; i++ {
		cells = append(cells, DayCell{})
	}
	for d := 1; d <= days; d++ {
		cells = append(cells, DayCell{Day: d, DateKey: DateKey(year, month, d)})
	}
	return cells
}
