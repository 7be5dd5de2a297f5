package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/internal/logging"
)

// rulesLookback is how far back the missed-habit rule looks for history.
const rulesLookback = 14

type StatsService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
	notifier       *NotificationService
	now            func() time.Time
}

func NewStatsService(habitRepo domain.HabitRepository, completionRepo domain.CompletionRepository, notifier *NotificationService, now func() time.Time) *StatsService {
	if now == nil {
		now = time.Now
	}
	return &StatsService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		notifier:       notifier,
		now:            now,
	}
}

// Month computes the month summary and, as a side effect, runs the
// notification rules for the user. A rule failure is logged and does not
// fail the request.
func (s *StatsService) Month(ctx context.Context, userID string, year int, month time.Month) (*domain.StatsSnapshot, error) {
	from, to, err := domain.MonthBounds(year, month)
	if err != nil {
		return nil, err
	}

	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.completionRepo.ListByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	monthIdx := domain.NewCompletionIndex(rows)

	snapshot := ComputeStats(habits, monthIdx, domain.MonthDateKeys(year, month))

	if s.notifier != nil {
		if err := s.runRules(ctx, userID, habits, monthIdx); err != nil {
			logging.L().Warn("notification rules failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	return snapshot, nil
}

func (s *StatsService) runRules(ctx context.Context, userID string, habits []*domain.Habit, monthIdx domain.CompletionIndex) error {
	today := domain.CivilDate(s.now())
	recent, err := s.completionRepo.ListByUserAndRange(ctx, userID, today.AddDate(0, 0, -rulesLookback), today.AddDate(0, 0, -1))
	if err != nil {
		return err
	}

	drafts := EvaluateRules(habits, domain.NewCompletionIndex(recent), monthIdx, today)
	return s.notifier.Publish(ctx, userID, drafts)
}

// ComputeStats summarises one month. dates lists every day of the month in
// order; percentages are floored.
func ComputeStats(habits []*domain.Habit, idx domain.CompletionIndex, dates []string) *domain.StatsSnapshot {
	counts := make([]domain.HabitCount, len(habits))
	pos := make(map[string]int, len(habits))
	for i, h := range habits {
		counts[i] = domain.HabitCount{ID: h.ID, Name: h.Name}
		pos[h.ID] = i
	}

	daily := make([]int, 0, len(dates))
	for _, d := range dates {
		daily = append(daily, idx.Count(d))
		for _, hid := range idx[d] {
			if i, ok := pos[hid]; ok {
				counts[i].Count++
			}
		}
	}

	perDay := max(1, len(habits))

	done := 0
	for _, c := range counts {
		done += c.Count
	}

	weekly := []int{}
	for i := 0; i < len(daily); i += 7 {
		chunk := daily[i:min(i+7, len(daily))]
		sum := 0
		for _, v := range chunk {
			sum += v
		}
		weekly = append(weekly, percent(sum, len(chunk)*perDay))
	}

	if habits == nil {
		habits = []*domain.Habit{}
	}

	return &domain.StatsSnapshot{
		Habits:         habits,
		HabitCounts:    counts,
		DailyTotals:    daily,
		Weekly:         weekly,
		OverallPercent: percent(done, len(dates)*perDay),
	}
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return part * 100 / whole
}
