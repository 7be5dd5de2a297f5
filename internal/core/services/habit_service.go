package services

import (
	"context"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

type HabitService struct {
	repo domain.HabitRepository
}

func NewHabitService(repo domain.HabitRepository) *HabitService {
	return &HabitService{
		repo: repo,
	}
}

func (s *HabitService) Create(ctx context.Context, userID, name string) (*domain.Habit, error) {
	habit, err := domain.NewHabit(userID, name)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// owned loads a habit and hides habits of other users behind ErrHabitNotFound.
func (s *HabitService) owned(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) Rename(ctx context.Context, userID, id, name string) error {
	habit, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := habit.Rename(name); err != nil {
		return err
	}

	return s.repo.Update(ctx, habit)
}

// Delete removes the habit and, through the repository, all its completions.
func (s *HabitService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
