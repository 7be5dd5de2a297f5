package forecast

import (
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

// Feature layout: recent7, streak, then the weekday of the predicted day
// one-hot encoded with Monday at index 0.
const (
	idxRecent7 = iota
	idxStreak
	idxWeekday

	FeatureCount = idxWeekday + 7
)

// streakScale keeps the streak feature in the same range as the others.
const streakScale = 7.0

// Vector builds a feature row. weekday is the day being predicted.
func Vector(recent7 float64, streak int, weekday time.Weekday) []float64 {
	x := make([]float64, FeatureCount)
	x[idxRecent7] = recent7
	x[idxStreak] = float64(streak) / streakScale
	x[idxWeekday+mondayIndex(weekday)] = 1
	return x
}

func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// Recent7 returns the share of the seven days ending on day on which habitID
// was completed.
func Recent7(idx domain.CompletionIndex, habitID string, day time.Time) float64 {
	done := 0
	for i := 0; i < 7; i++ {
		if idx.Has(day.AddDate(0, 0, -i).Format(domain.DateLayout), habitID) {
			done++
		}
	}
	return float64(done) / 7
}

// Streak counts consecutive completed days ending on day. A missing day
// ends the streak.
func Streak(idx domain.CompletionIndex, habitID string, day time.Time) int {
	streak := 0
	for idx.Has(day.AddDate(0, 0, -streak).Format(domain.DateLayout), habitID) {
		streak++
	}
	return streak
}

// NextDay returns the features used to predict whether habitID is completed
// on the day after day.
func NextDay(idx domain.CompletionIndex, habitID string, day time.Time) []float64 {
	return Vector(Recent7(idx, habitID, day), Streak(idx, habitID, day), day.AddDate(0, 0, 1).Weekday())
}

// Dataset turns a completion history into training rows. For every habit it
// walks the dates that have any completion, in order, and labels each row
// with whether the habit was done on the following row's date.
func Dataset(habitIDs []string, idx domain.CompletionIndex) (X [][]float64, y []float64) {
	dates := idx.Dates()
	days := make([]time.Time, 0, len(dates))
	for _, key := range dates {
		d, err := domain.ParseDateKey(key)
		if err != nil {
			continue
		}
		days = append(days, d)
	}

	for _, hid := range habitIDs {
		for i := 0; i+1 < len(days); i++ {
			day, next := days[i], days[i+1]
			X = append(X, Vector(Recent7(idx, hid, day), Streak(idx, hid, day), next.Weekday()))

			target := 0.0
			if idx.Has(next.Format(domain.DateLayout), hid) {
				target = 1
			}
			y = append(y, target)
		}
	}
	return X, y
}
