package dashboard

import (
	"slices"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

type Level string

const (
	LevelLow       Level = "low"
	LevelModerate  Level = "moderate"
	LevelExcellent Level = "excellent"
)

const (
	lowThreshold       = 40
	excellentThreshold = 70

	MessageLow       = "Your consistency is low. Try focusing on 2-3 key habits."
	MessageModerate  = "Doing well. Try improving weekly by 5%."
	MessageExcellent = "Excellent! Consider adding a new challenge."
)

// Recommendation is the single piece of advice picked from overall_percent.
type Recommendation struct {
	Level   Level
	Message string
}

// Insights is the text side of the stats panel.
type Insights struct {
	Overall int

	// Ranked holds habit counts by descending count; equal counts keep the
	// order in which the server listed them.
	Ranked []domain.HabitCount

	// Top and NeedsAttention are nil only when there are no habits. With a
	// single habit both point at the same entry.
	Top            *domain.HabitCount
	NeedsAttention *domain.HabitCount

	Recommendation Recommendation

	// Untouched lists the names of habits with a count of exactly zero.
	Untouched []string
}

func Recommend(overall int) Recommendation {
	switch {
	case overall < lowThreshold:
		return Recommendation{Level: LevelLow, Message: MessageLow}
	case overall < excellentThreshold:
		return Recommendation{Level: LevelModerate, Message: MessageModerate}
	default:
		return Recommendation{Level: LevelExcellent, Message: MessageExcellent}
	}
}

// RankHabits returns a sorted copy; the input is left untouched.
func RankHabits(counts []domain.HabitCount) []domain.HabitCount {
	ranked := slices.Clone(counts)
	slices.SortStableFunc(ranked, func(a, b domain.HabitCount) int {
		return b.Count - a.Count
	})
	return ranked
}

func BuildInsights(s *domain.StatsSnapshot) Insights {
	ranked := RankHabits(s.HabitCounts)

	in := Insights{
		Overall:        s.OverallPercent,
		Ranked:         ranked,
		Recommendation: Recommend(s.OverallPercent),
	}

	if len(ranked) > 0 {
		in.Top = &ranked[0]
		in.NeedsAttention = &ranked[len(ranked)-1]
	}

	for _, hc := range ranked {
		if hc.Count == 0 {
			in.Untouched = append(in.Untouched, hc.Name)
		}
	}

	return in
}
