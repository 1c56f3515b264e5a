package workers

import (
	"context"

	"go.uber.org/zap"

	"github.com/lumenjournal/lumen-progress-engine/internal/core/domain"
)

// StreakEvaluator recomputes and persists a user's streak state.
type StreakEvaluator interface {
	Evaluate(ctx context.Context, userID string) (*domain.StreakState, error)
}

type StreakJob struct {
	UserID string
}

// StreakWorker recomputes streak counters in the background after
// reflection writes, so request handlers never wait on the full
// ActivityDay scan.
type StreakWorker struct {
	evaluator StreakEvaluator
	jobs      chan StreakJob
	logger    *zap.Logger
}

func NewStreakWorker(evaluator StreakEvaluator, logger *zap.Logger) *StreakWorker {
	return &StreakWorker{
		evaluator: evaluator,
		jobs:      make(chan StreakJob, 100),
		logger:    logger,
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		w.logger.Info("streak worker started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.logger.Info("streak worker shutting down")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(userID string) {
	select {
	case w.jobs <- StreakJob{UserID: userID}:
	default:
		w.logger.Warn("streak worker queue full, dropping job", zap.String("user_id", userID))
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	state, err := w.evaluator.Evaluate(ctx, job.UserID)
	if err != nil {
		w.logger.Error("streak recompute failed", zap.String("user_id", job.UserID), zap.Error(err))
		return
	}

	w.logger.Debug("streak recomputed",
		zap.String("user_id", job.UserID),
		zap.Int("current", state.CurrentStreak),
		zap.Int("longest", state.LongestStreak),
	)
}
