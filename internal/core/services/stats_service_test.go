package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/services"
)

func TestComputeStats(t *testing.T) {
	habits := []*domain.Habit{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	idx := domain.CompletionIndex{
		"2023-02-01": {"a", "b"},
		"2023-02-02": {"a"},
		"2023-02-08": {"b"},
		"2023-02-28": {"a", "b", "ghost"},
	}

	s := services.ComputeStats(habits, idx, domain.MonthDateKeys(2023, time.February))

	assert.Equal(t, []domain.HabitCount{{ID: "a", Name: "A", Count: 3}, {ID: "b", Name: "B", Count: 3}}, s.HabitCounts)
	require.Len(t, s.DailyTotals, 28)
	assert.Equal(t, 2, s.DailyTotals[0])
	assert.Equal(t, 3, s.DailyTotals[27], "daily totals count every stored id")
	// 6 done over 28 days * 2 habits.
	assert.Equal(t, 10, s.OverallPercent)
	require.Len(t, s.Weekly, 4)
	assert.Equal(t, []int{21, 7, 0, 21}, s.Weekly)
}

func TestComputeStats_Edges(t *testing.T) {
	t.Run("No habits divides by one", func(t *testing.T) {
		s := services.ComputeStats(nil, domain.CompletionIndex{}, domain.MonthDateKeys(2024, time.March))
		assert.Zero(t, s.OverallPercent)
		assert.Len(t, s.Weekly, 5, "31 days make four full weeks and a partial one")
		assert.NotNil(t, s.Habits)
	})

	t.Run("Perfect month", func(t *testing.T) {
		habits := []*domain.Habit{{ID: "a", Name: "A"}}
		idx := domain.CompletionIndex{}
		for _, k := range domain.MonthDateKeys(2024, time.April) {
			idx.Add(k, "a")
		}
		s := services.ComputeStats(habits, idx, domain.MonthDateKeys(2024, time.April))
		assert.Equal(t, 100, s.OverallPercent)
		assert.Equal(t, []int{100, 100, 100, 100, 100}, s.Weekly)
	})
}

func TestStatsService_Month(t *testing.T) {
	ctx := context.Background()
	st := newStores()
	clock := fixedClock("2024-03-20")
	notifier := services.NewNotificationService(st.notifications, clock)
	svc := services.NewStatsService(st.habits, st.completions, notifier, clock)
	completions := services.NewCompletionService(st.completions, st.habits, nil)

	run, _ := services.NewHabitService(st.habits).Create(ctx, "u1", "Run")
	for _, d := range []string{"2024-03-10", "2024-03-12"} {
		_, err := completions.Toggle(ctx, services.ToggleInput{UserID: "u1", HabitID: run.ID, Date: d})
		require.NoError(t, err)
	}

	s, err := svc.Month(ctx, "u1", 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, 2, s.HabitCounts[0].Count)
	assert.Equal(t, 6, s.OverallPercent)

	notes, err := notifier.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "You missed 'Run' for 3 days. Try making it smaller (5 min) or set a reminder.", notes[0].Message)

	_, err = svc.Month(ctx, "u1", 2024, time.March)
	require.NoError(t, err)
	notes, _ = notifier.List(ctx, "u1")
	assert.Len(t, notes, 1, "rule messages are deduplicated")

	_, err = svc.Month(ctx, "u1", 2024, 13)
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
}
