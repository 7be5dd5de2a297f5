package dashboard

import (
	"fmt"
	"time"
)

// ViewState is the viewed month. It is a value: every pipeline run receives
// its own copy instead of reading a shared cursor.
type ViewState struct {
	Year  int
	Month time.Month
}

// StateFor returns the month containing t, in t's location.
func StateFor(t time.Time) ViewState {
	return ViewState{Year: t.Year(), Month: t.Month()}
}

// Advance moves by delta months. Day 1 is used as the anchor so that moving
// from the 31st never skips a short month.
func (s ViewState) Advance(delta int) ViewState {
	t := time.Date(s.Year, s.Month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return StateFor(t)
}

// Label is the human readable month, e.g. "March 2024".
func (s ViewState) Label() string {
	return fmt.Sprintf("%s %d", s.Month, s.Year)
}

// Key is the YYYY-MM form of the month.
func (s ViewState) Key() string {
	return fmt.Sprintf("%04d-%02d", s.Year, int(s.Month))
}
