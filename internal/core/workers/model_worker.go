package workers

import (
	"context"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-dashboard/internal/logging"
)

// RetrainEvery is the completion count step at which a user's model is fitted
// again.
const RetrainEvery = 20

type CompletionCounter interface {
	CountByUser(ctx context.Context, userID string) (int, error)
}

type Trainer interface {
	Retrain(ctx context.Context, userID string) error
}

type RetrainJob struct {
	UserID string
}

// ModelWorker retrains next-day models off the request path.
type ModelWorker struct {
	counter CompletionCounter
	trainer Trainer
	jobs    chan RetrainJob
	log     *zap.Logger
}

func NewModelWorker(counter CompletionCounter, trainer Trainer) *ModelWorker {
	return &ModelWorker{
		counter: counter,
		trainer: trainer,
		jobs:    make(chan RetrainJob, 100),
		log:     logging.L().Named("model-worker"),
	}
}

func (w *ModelWorker) Start(ctx context.Context) {
	go func() {
		w.log.Info("model worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.log.Info("model worker shutting down")
				return
			}
		}
	}()
}

// Enqueue schedules a retrain check. It never blocks; when the queue is full
// the job is dropped.
func (w *ModelWorker) Enqueue(userID string) {
	select {
	case w.jobs <- RetrainJob{UserID: userID}:
	default:
		w.log.Warn("queue full, dropping retrain job", zap.String("user_id", userID))
	}
}

// ShouldRetrain reports whether count is a positive multiple of RetrainEvery.
func ShouldRetrain(count int) bool {
	return count >= RetrainEvery && count%RetrainEvery == 0
}

func (w *ModelWorker) processJob(ctx context.Context, job RetrainJob) {
	log := w.log.With(zap.String("user_id", job.UserID))

	count, err := w.counter.CountByUser(ctx, job.UserID)
	if err != nil {
		log.Error("count completions", zap.Error(err))
		return
	}
	if !ShouldRetrain(count) {
		return
	}

	if err := w.trainer.Retrain(ctx, job.UserID); err != nil {
		log.Warn("retrain failed", zap.Int("completions", count), zap.Error(err))
		return
	}
	log.Info("model retrained", zap.Int("completions", count))
}
