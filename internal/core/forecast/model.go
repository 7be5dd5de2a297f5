package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

var ErrNotEnoughData = errors.New("not enough history to train a model")

// Params control the gradient descent fit.
type Params struct {
	Iterations   int
	LearningRate float64
	L2           float64
}

func DefaultParams() Params {
	return Params{Iterations: 500, LearningRate: 0.5, L2: 0.01}
}

// Fit trains an L2 regularised logistic regression by batch gradient
// descent. Rows must all have FeatureCount columns. Fitting is deterministic:
// weights start at zero and every iteration uses the full batch.
func Fit(X [][]float64, y []float64, p Params) (weights []float64, bias float64, err error) {
	if len(X) != len(y) {
		return nil, 0, fmt.Errorf("forecast: %d rows but %d targets", len(X), len(y))
	}
	if len(X) < 2 || !bothClasses(y) {
		return nil, 0, ErrNotEnoughData
	}

	n := float64(len(X))
	weights = make([]float64, FeatureCount)
	grad := make([]float64, FeatureCount)

	for it := 0; it < p.Iterations; it++ {
		clear(grad)
		gradBias := 0.0

		for i, row := range X {
			if len(row) != FeatureCount {
				return nil, 0, fmt.Errorf("forecast: row %d has %d features, want %d", i, len(row), FeatureCount)
			}
			diff := sigmoid(dot(weights, row)+bias) - y[i]
			for j, v := range row {
				grad[j] += diff * v
			}
			gradBias += diff
		}

		for j := range weights {
			weights[j] -= p.LearningRate * (grad[j]/n + p.L2*weights[j])
		}
		bias -= p.LearningRate * gradBias / n
	}

	return weights, bias, nil
}

// Train fits a model for userID from its habits and completion history.
func Train(userID string, habitIDs []string, idx domain.CompletionIndex, p Params) (*domain.PredictionModel, error) {
	X, y := Dataset(habitIDs, idx)
	weights, bias, err := Fit(X, y, p)
	if err != nil {
		return nil, err
	}
	return &domain.PredictionModel{
		UserID:    userID,
		Weights:   weights,
		Bias:      bias,
		Samples:   len(X),
		TrainedAt: time.Now().UTC(),
	}, nil
}

// Score returns the probability of a positive outcome for x.
func Score(m *domain.PredictionModel, x []float64) (float64, error) {
	if len(m.Weights) != len(x) {
		return 0, fmt.Errorf("forecast: model has %d weights, row has %d features", len(m.Weights), len(x))
	}
	return sigmoid(dot(m.Weights, x) + m.Bias), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func bothClasses(y []float64) bool {
	var pos, neg bool
	for _, v := range y {
		if v > 0.5 {
			pos = true
		} else {
			neg = true
		}
	}
	return pos && neg
}
