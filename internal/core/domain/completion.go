package domain

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// DateLayout is the ISO date-only form used for every date key crossing the API.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate       = errors.New("invalid date (must be YYYY-MM-DD)")
	ErrInvalidMonth      = errors.New("invalid month (must be 1-12)")
	ErrCompletionMissing = errors.New("habit_id and date are required")
	ErrCompletionExists  = errors.New("completion already recorded")
)

// Completion records that a habit was performed on a calendar date.
type Completion struct {
	ID      string    `json:"id" db:"id"`
	UserID  string    `json:"user_id" db:"user_id"`
	HabitID string    `json:"habit_id" db:"habit_id"`
	Date    time.Time `json:"date" db:"date"`
}

// DateKey returns the completion day as YYYY-MM-DD. The stored date carries
// no time zone meaning, so it is formatted as is.
func (c *Completion) DateKey() string {
	return c.Date.Format(DateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key into a midnight UTC value. UTC is only
// a carrier here: the key is a calendar date, not an instant.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(key))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// CompletionIndex maps a date key to the ids of habits completed that day.
// Absent keys mean no completions.
type CompletionIndex map[string][]string

// NewCompletionIndex builds an index from completion rows, dropping
// duplicate habit ids within a day.
func NewCompletionIndex(rows []*Completion) CompletionIndex {
	idx := make(CompletionIndex)
	for _, c := range rows {
		idx.Add(c.DateKey(), c.HabitID)
	}
	return idx
}

func (idx CompletionIndex) Add(dateKey, habitID string) {
	if idx.Has(dateKey, habitID) {
		return
	}
	idx[dateKey] = append(idx[dateKey], habitID)
}

func (idx CompletionIndex) Has(dateKey, habitID string) bool {
	for _, id := range idx[dateKey] {
		if id == habitID {
			return true
		}
	}
	return false
}

// Count returns the number of distinct habits completed on dateKey.
func (idx CompletionIndex) Count(dateKey string) int {
	seen := make(map[string]struct{}, len(idx[dateKey]))
	for _, id := range idx[dateKey] {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// Dates returns the keys in ascending order.
func (idx CompletionIndex) Dates() []string {
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MonthData is the payload of GET /api/month/{year}/{month}.
type MonthData struct {
	Habits      []*Habit        `json:"habits"`
	Completions CompletionIndex `json:"completions"`
}
