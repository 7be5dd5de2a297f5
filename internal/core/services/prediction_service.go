package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
	"github.com/comitanigiacomo/kanso-dashboard/internal/core/forecast"
)

// predictionWindow bounds the history loaded to score tomorrow.
const predictionWindow = 30

type PredictionService struct {
	habitRepo      domain.HabitRepository
	completionRepo domain.CompletionRepository
	store          domain.ModelStore
	params         forecast.Params
	now            func() time.Time
}

func NewPredictionService(habitRepo domain.HabitRepository, completionRepo domain.CompletionRepository, store domain.ModelStore, now func() time.Time) *PredictionService {
	if now == nil {
		now = time.Now
	}
	return &PredictionService{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		store:          store,
		params:         forecast.DefaultParams(),
		now:            now,
	}
}

// Retrain fits a new model on the user's whole history and stores it.
func (s *PredictionService) Retrain(ctx context.Context, userID string) error {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return err
	}

	rows, err := s.completionRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(habits))
	for _, h := range habits {
		ids = append(ids, h.ID)
	}

	model, err := forecast.Train(userID, ids, domain.NewCompletionIndex(rows), s.params)
	if err != nil {
		return fmt.Errorf("train model: %w", err)
	}

	return s.store.Save(ctx, model)
}

// NextDay scores every habit for tomorrow. Without a trained model each
// probability is nil.
func (s *PredictionService) NextDay(ctx context.Context, userID string) ([]*domain.Prediction, error) {
	habits, err := s.habitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Prediction, 0, len(habits))
	if len(habits) == 0 {
		return out, nil
	}

	model, err := s.store.Load(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrModelNotFound) {
		return nil, err
	}

	today := domain.CivilDate(s.now())
	rows, err := s.completionRepo.ListByUserAndRange(ctx, userID, today.AddDate(0, 0, -predictionWindow), today)
	if err != nil {
		return nil, err
	}
	idx := domain.NewCompletionIndex(rows)

	for _, h := range habits {
		p := &domain.Prediction{HabitID: h.ID, Name: h.Name}
		if model != nil {
			prob, err := forecast.Score(model, forecast.NextDay(idx, h.ID, today))
			if err != nil {
				return nil, err
			}
			p.Probability = &prob
		}
		out = append(out, p)
	}

	return out, nil
}
