package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

const (
	ToggleAdded   = "added"
	ToggleRemoved = "removed"
)

// RetrainQueue receives a user id whenever a completion is added.
type RetrainQueue interface {
	Enqueue(userID string)
}

type CompletionService struct {
	repo      domain.CompletionRepository
	habitRepo domain.HabitRepository
	queue     RetrainQueue
}

func NewCompletionService(repo domain.CompletionRepository, habitRepo domain.HabitRepository, queue RetrainQueue) *CompletionService {
	return &CompletionService{
		repo:      repo,
		habitRepo: habitRepo,
		queue:     queue,
	}
}

type ToggleInput struct {
	UserID  string
	HabitID string
	Date    string
}

// Toggle deletes the completion of a habit on a date when it exists and
// records it otherwise. It returns ToggleAdded or ToggleRemoved.
func (s *CompletionService) Toggle(ctx context.Context, input ToggleInput) (string, error) {
	if strings.TrimSpace(input.HabitID) == "" || strings.TrimSpace(input.Date) == "" {
		return "", domain.ErrCompletionMissing
	}

	date, err := domain.ParseDateKey(input.Date)
	if err != nil {
		return "", err
	}

	habit, err := s.habitRepo.GetByID(ctx, input.HabitID)
	if err != nil {
		return "", err
	}
	if habit.UserID != input.UserID {
		return "", domain.ErrHabitNotFound
	}

	existing, err := s.repo.Find(ctx, input.UserID, input.HabitID, date)
	if err != nil {
		return "", err
	}

	if existing != nil {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return "", err
		}
		return ToggleRemoved, nil
	}

	c := &domain.Completion{UserID: input.UserID, HabitID: input.HabitID, Date: date}
	// A concurrent toggle may have inserted the same row; either way it is added.
	if err := s.repo.Create(ctx, c); err != nil && !errors.Is(err, domain.ErrCompletionExists) {
		return "", err
	}

	if s.queue != nil {
		s.queue.Enqueue(input.UserID)
	}
	return ToggleAdded, nil
}

// Month returns the user's habits and the completions within one month.
func (s *CompletionService) Month(ctx context.Context, userID string, year int, month time.Month) (*domain.MonthData, error) {
	from, to, err := domain.MonthBounds(year, month)
	if err != nil {
		return nil, err
	}

	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByUserAndRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	return &domain.MonthData{
		Habits:      habits,
		Completions: domain.NewCompletionIndex(rows),
	}, nil
}
