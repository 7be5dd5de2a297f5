package domain

import (
	"errors"
	"time"
)

var ErrModelNotFound = errors.New("no trained model for user")

// Prediction carries the probability that a habit is completed tomorrow.
// A nil probability means no prediction is available, which is not the same
// as a zero probability.
type Prediction struct {
	HabitID     string   `json:"habit_id"`
	Name        string   `json:"name"`
	Probability *float64 `json:"probability_next_day"`
}

// PredictionModel holds the fitted coefficients of a user's next-day model.
type PredictionModel struct {
	UserID    string    `json:"user_id"`
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Samples   int       `json:"samples"`
	TrainedAt time.Time `json:"trained_at"`
}
